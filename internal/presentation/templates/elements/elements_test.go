package templates

import (
	"encoding/json"
	"errors"
	"html"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/admini-go/internal/domain/services"
)

// childRenderer renders fields and form containers for real and every
// other child as a marker span.
type childRenderer struct {
	ctx  *rendering.RenderContext
	form *services.FormAggregator
}

func (r *childRenderer) RenderNode(node content.ComponentNode) string {
	switch {
	case node.Type == content.ComponentFormContainer:
		return NewFormContainerRenderer(r.ctx, r).Render(node)
	case node.Type.IsFormField():
		return NewFormFieldRenderer(r.ctx, r).Render(node)
	}
	return `<span data-child="` + node.ID + `"></span>`
}

func (r *childRenderer) RenderChildren(nodes []content.ComponentNode) string {
	var out strings.Builder
	for _, node := range nodes {
		out.WriteString(r.RenderNode(node))
	}
	return out.String()
}

func (r *childRenderer) Form() *services.FormAggregator { return r.form }

func (r *childRenderer) WithForm(form *services.FormAggregator) NodeRenderer {
	return &childRenderer{ctx: r.ctx, form: form}
}

func publishedContext(bindings map[string]*rendering.Binding) *rendering.RenderContext {
	params := rendering.NewParameterMap()
	params.Set("cid", "c9")
	return &rendering.RenderContext{
		Mode:      rendering.ModePublished,
		State:     rendering.PageReady,
		Page:      &content.PageDefinition{ID: "p1", Slug: "orders"},
		APIs:      []content.ApiDefinition{{ID: "create", URL: "https://x/orders", Method: content.MethodPost}},
		Pages:     []content.PageDefinition{{ID: "order", Slug: "customers/:cid/orders/:id"}},
		Params:    params,
		Path:      "/orders",
		SessionID: "s1",
		Bindings:  bindings,
	}
}

func bound(raw string) *rendering.Binding {
	data, _ := services.DecodeJSON([]byte(raw))
	return &rendering.Binding{Found: true, Data: data, Raw: []byte(raw)}
}

func renderTable(ctx *rendering.RenderContext, node content.ComponentNode) string {
	return NewTableRenderer(ctx, &childRenderer{ctx: ctx}).Render(node)
}

func renderDetail(ctx *rendering.RenderContext, node content.ComponentNode) string {
	return NewDetailRenderer(ctx, &childRenderer{ctx: ctx}).Render(node)
}

const ordersJSON = `[{"zeta":7,"alpha":"Widget","secret":"x"},{"zeta":8,"alpha":"Gadget","secret":"y"}]`

func ordersTable() content.ComponentNode {
	return content.ComponentNode{ID: "t1", Type: content.ComponentTable, ApiID: "orders", Props: map[string]any{
		"hiddenColumns": "secret",
		"rowActions": []any{
			map[string]any{"id": "view", "label": "View", "action": "navigate", "targetPageId": "order",
				"navParams": map[string]any{"cid": "%cid%", "id": "%zeta%"}},
			map[string]any{"id": "a1", "label": "Approve", "action": "api", "apiId": "approve"},
		},
	}}
}

func TestColumnsKeepDocumentOrderAndHideColumns(t *testing.T) {
	rows := services.CoerceRecords([]byte(ordersJSON))
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"zeta", "alpha"}, Columns(ordersTable(), rows))
	assert.Equal(t, []string{"zeta", "alpha", "secret"}, Columns(content.ComponentNode{Props: map[string]any{}}, rows))
	assert.Nil(t, Columns(ordersTable(), nil))
}

func TestTableRendersColumnsInOrder(t *testing.T) {
	ctx := publishedContext(map[string]*rendering.Binding{"t1": bound(ordersJSON)})
	out := renderTable(ctx, ordersTable())

	zeta := strings.Index(out, ">zeta</th>")
	alpha := strings.Index(out, ">alpha</th>")
	require.NotEqual(t, -1, zeta)
	require.NotEqual(t, -1, alpha)
	assert.Less(t, zeta, alpha)
	assert.NotContains(t, out, ">secret</th>")
	assert.NotContains(t, out, ">x</td>")
	assert.Contains(t, out, ">Widget</td>")
	assert.Contains(t, out, ">Actions</th>")
}

func TestTableNavigateActionMergesRowIntoNavParams(t *testing.T) {
	ctx := publishedContext(map[string]*rendering.Binding{"t1": bound(ordersJSON)})
	out := renderTable(ctx, ordersTable())

	assert.Contains(t, out, `href="/customers/c9/orders/7"`)
	assert.Contains(t, out, `href="/customers/c9/orders/8"`)
}

func TestTableNavigateActionWithUnknownPage(t *testing.T) {
	node := ordersTable()
	node.Props["rowActions"] = []any{map[string]any{"id": "view", "label": "View", "targetPageId": "gone"}}
	ctx := publishedContext(map[string]*rendering.Binding{"t1": bound(ordersJSON)})

	assert.Contains(t, renderTable(ctx, node), `href="#"`)
}

func TestTableAPIActionCarriesRowAndStatusTarget(t *testing.T) {
	ctx := publishedContext(map[string]*rendering.Binding{"t1": bound(ordersJSON)})
	out := renderTable(ctx, ordersTable())

	valsPattern := regexp.MustCompile(`hx-post="` + regexp.QuoteMeta(RowActionURL("p1", "t1", "a1")) + `" hx-vals="([^"]*)"`)
	matches := valsPattern.FindAllStringSubmatch(out, -1)
	require.Len(t, matches, 2)

	var vals map[string]string
	require.NoError(t, json.Unmarshal([]byte(html.UnescapeString(matches[0][1])), &vals))
	assert.Equal(t, "/orders", vals[ValPath])
	assert.Equal(t, "s1", vals[ValSession])
	assert.JSONEq(t, `{"zeta":7,"alpha":"Widget","secret":"x"}`, vals[ValRow])

	assert.Contains(t, out, `hx-target="#status-t1-r0"`)
	assert.Contains(t, out, `<span id="status-t1-r0"></span>`)
	assert.Contains(t, out, `<span id="status-t1-r1"></span>`)
}

func TestTableStates(t *testing.T) {
	node := ordersTable()

	empty := publishedContext(map[string]*rendering.Binding{"t1": bound(`[]`)})
	assert.Contains(t, renderTable(empty, node), NoDataText)

	unbound := publishedContext(map[string]*rendering.Binding{"t1": {Found: false}})
	assert.Contains(t, renderTable(unbound, node), NoAPIText)

	unknownAPI := publishedContext(nil)
	assert.Contains(t, renderTable(unknownAPI, node), NoAPIText)

	failed := publishedContext(map[string]*rendering.Binding{"t1": {Found: true, Err: errors.New("Failed to fetch data (status 502)")}})
	out := renderTable(failed, node)
	assert.Contains(t, out, "Error: Failed to fetch data (status 502)")
	assert.NotContains(t, out, NoDataText)
}

func detailNode(props map[string]any) content.ComponentNode {
	return content.ComponentNode{ID: "d1", Type: content.ComponentDetail, ApiID: "order", Props: props}
}

func TestDetailSingleValue(t *testing.T) {
	ctx := publishedContext(map[string]*rendering.Binding{"d1": bound(`{"customer":{"name":"Ada"},"id":1}`)})
	out := renderDetail(ctx, detailNode(map[string]any{"displayMode": "single", "jsonPath": "customer.name"}))

	assert.Contains(t, out, ">customer.name</dt>")
	assert.Contains(t, out, `<dd class="mt-1 text-sm text-gray-900">Ada</dd>`)
	assert.NotContains(t, out, ">id</dt>")
}

func TestDetailSingleWithoutPathIsEmpty(t *testing.T) {
	ctx := publishedContext(map[string]*rendering.Binding{"d1": bound(`{"id":1,"status":"open"}`)})
	out := renderDetail(ctx, detailNode(map[string]any{"displayMode": "single"}))

	assert.Contains(t, out, ">Value</dt>")
	assert.Contains(t, out, `<dd class="mt-1 text-sm text-gray-900"></dd>`)
	assert.NotContains(t, out, "&#34;open&#34;")
}

func TestDetailSingleList(t *testing.T) {
	ctx := publishedContext(map[string]*rendering.Binding{"d1": bound(`{"items":[{"name":"a"},{"name":"b"}]}`)})
	out := renderDetail(ctx, detailNode(map[string]any{"displayMode": "single", "jsonPath": "items", "listItemPath": "name"}))

	assert.Contains(t, out, `<ul class="list-disc list-inside space-y-1"><li>a</li><li>b</li></ul>`)
}

func TestDetailAllFieldsInDocumentOrder(t *testing.T) {
	ctx := publishedContext(map[string]*rendering.Binding{"d1": bound(`{"zeta":2,"alpha":"one"}`)})
	out := renderDetail(ctx, detailNode(map[string]any{}))

	zeta := strings.Index(out, ">zeta</dt>")
	alpha := strings.Index(out, ">alpha</dt>")
	require.NotEqual(t, -1, zeta)
	require.NotEqual(t, -1, alpha)
	assert.Less(t, zeta, alpha)
	assert.Contains(t, out, ">one</dd>")
	assert.Contains(t, out, ">Details</h3>")
}

func TestDetailErrorState(t *testing.T) {
	ctx := publishedContext(map[string]*rendering.Binding{"d1": {Found: true, Err: errors.New("Response is not valid JSON")}})
	assert.Contains(t, renderDetail(ctx, detailNode(map[string]any{})), "Error: Response is not valid JSON")
}

func iframeNode(props map[string]any) content.ComponentNode {
	return content.ComponentNode{ID: "i1", Type: content.ComponentIframe, Props: props}
}

func TestIframeCodeIsSanitized(t *testing.T) {
	ctx := publishedContext(nil)
	code := `<iframe src="https://embed.example.com/v" onload="steal()"></iframe><script>alert(1)</script>`
	out := NewEmbedRenderer(ctx, &childRenderer{ctx: ctx}).RenderIframe(iframeNode(map[string]any{"iframeCode": code}))

	assert.Contains(t, out, `src="https://embed.example.com/v"`)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "onload")
}

func TestIframeCodeTrusted(t *testing.T) {
	ctx := publishedContext(nil)
	ctx.TrustEmbedMarkup = true
	code := `<div id="w"></div><script>alert(1)</script>`
	out := NewEmbedRenderer(ctx, &childRenderer{ctx: ctx}).RenderIframe(iframeNode(map[string]any{"iframeCode": code}))

	assert.Contains(t, out, code)
}

func TestIframeURLAndEmpty(t *testing.T) {
	ctx := publishedContext(nil)
	er := NewEmbedRenderer(ctx, &childRenderer{ctx: ctx})

	out := er.RenderIframe(iframeNode(map[string]any{"url": "https://embed.example.com/y", "height": "400px"}))
	assert.Contains(t, out, `src="https://embed.example.com/y"`)
	assert.Contains(t, out, "height: 400px")

	assert.Contains(t, er.RenderIframe(iframeNode(map[string]any{})), IframeHelpText)
}

func orderForm(children ...content.ComponentNode) content.ComponentNode {
	return content.ComponentNode{ID: "fc", Type: content.ComponentFormContainer, ApiID: "create", Label: "New order", Props: map[string]any{}, Children: children}
}

func field(id string, kind content.ComponentType, props map[string]any) content.ComponentNode {
	return content.ComponentNode{ID: id, Type: kind, Props: props}
}

func TestFormContainerRendersDefaults(t *testing.T) {
	owner := field("f-owner", content.ComponentFormText, map[string]any{
		"name": "owner", "defaultValueSource": "api", "defaultValueJsonPath": "user.name",
	})
	owner.ApiID = "me"
	node := orderForm(
		field("f-title", content.ComponentFormText, map[string]any{"name": "title", "defaultValue": "Widget"}),
		field("f-agree", content.ComponentFormCheckbox, map[string]any{"name": "agree", "defaultValue": true}),
		field("f-news", content.ComponentFormCheckbox, map[string]any{"name": "news"}),
		field("f-size", content.ComponentFormSelect, map[string]any{"name": "size", "options": "S,M,L", "defaultValue": "M"}),
		field("f-tags", content.ComponentFormMultiCheckbox, map[string]any{"name": "tags", "options": "a,b", "defaultValue": "b"}),
		owner,
	)
	ctx := publishedContext(map[string]*rendering.Binding{"f-owner": bound(`{"user":{"name":"Ada"}}`)})
	out := NewFormContainerRenderer(ctx, &childRenderer{ctx: ctx}).Render(node)

	assert.Contains(t, out, `hx-post="`+FormActionURL("p1", "fc")+`"`)
	assert.Contains(t, out, `<input type="text" name="title" value="Widget"`)
	assert.Contains(t, out, `name="agree" value="true" checked`)
	assert.NotContains(t, out, `name="news" value="true" checked`)
	assert.Contains(t, out, `<option value="M" selected>M</option>`)
	assert.Contains(t, out, `<option value="S">S</option>`)
	assert.Contains(t, out, `name="tags" value="b" checked`)
	assert.NotContains(t, out, `name="tags" value="a" checked`)
	assert.Contains(t, out, `<input type="text" name="owner" value="Ada"`)
	assert.Contains(t, out, `type="submit"`)
}

func TestFormContainerWithoutAPI(t *testing.T) {
	node := orderForm(field("f-title", content.ComponentFormText, map[string]any{"name": "title"}))
	node.ApiID = ""
	ctx := publishedContext(nil)
	out := NewFormContainerRenderer(ctx, &childRenderer{ctx: ctx}).Render(node)

	assert.Contains(t, out, ConnectSubmitText)
	assert.NotContains(t, out, "hx-post")
	assert.NotContains(t, out, `type="submit"`)
}

func TestNestedFormContainerRendersAsFieldset(t *testing.T) {
	inner := content.ComponentNode{ID: "inner", Type: content.ComponentFormContainer, Label: "Shipping", Props: map[string]any{}, Children: []content.ComponentNode{
		field("f-city", content.ComponentFormText, map[string]any{"name": "city", "defaultValue": "Hue"}),
	}}
	node := orderForm(field("f-title", content.ComponentFormText, map[string]any{"name": "title"}), inner)
	ctx := publishedContext(nil)
	out := NewFormContainerRenderer(ctx, &childRenderer{ctx: ctx}).Render(node)

	assert.Equal(t, 1, strings.Count(out, "<form"))
	assert.Equal(t, 1, strings.Count(out, "</form>"))
	assert.Contains(t, out, ">Shipping</legend>")
	assert.Contains(t, out, `name="city" value="Hue"`)
	assert.Equal(t, 1, strings.Count(out, `type="submit"`))
	assert.Less(t, strings.Index(out, "</fieldset>"), strings.Index(out, "</form>"))
}

func designContext() *rendering.RenderContext {
	return &rendering.RenderContext{
		Mode:   rendering.ModeDesign,
		Page:   &content.PageDefinition{ID: "p1"},
		Params: rendering.NewParameterMap(),
	}
}

func renderDesign(node content.ComponentNode) string {
	ctx := designContext()
	return NewDesignRenderer(ctx, &childRenderer{ctx: ctx}).Render(node)
}

func TestDesignColumnsDistributeChildren(t *testing.T) {
	var children []content.ComponentNode
	for _, id := range []string{"c0", "c1", "c2", "c3", "c4"} {
		children = append(children, content.ComponentNode{ID: id, Type: content.ComponentText, Props: map[string]any{}})
	}
	out := renderDesign(content.ComponentNode{ID: "l3", Type: content.ComponentLayout3Col, Props: map[string]any{}, Children: children})

	columns := strings.Split(out, `data-drop-column="`)
	require.Len(t, columns, 4)
	want := [][]string{{"c0", "c3"}, {"c1", "c4"}, {"c2"}}
	for col, ids := range want {
		body := columns[col+1]
		for _, id := range []string{"c0", "c1", "c2", "c3", "c4"} {
			marker := `data-child="` + id + `"`
			if slices.Contains(ids, id) {
				assert.Contains(t, body, marker, "column %d", col)
			} else {
				assert.NotContains(t, body, marker, "column %d", col)
			}
		}
	}
	assert.NotContains(t, out, DropComponentsText)
}

func TestDesignHints(t *testing.T) {
	layout := renderDesign(content.ComponentNode{ID: "l2", Type: content.ComponentLayout2Col, Props: map[string]any{}})
	assert.Equal(t, 2, strings.Count(layout, DropComponentsText))

	partial := renderDesign(content.ComponentNode{ID: "l2", Type: content.ComponentLayout2Col, Props: map[string]any{}, Children: []content.ComponentNode{
		{ID: "c0", Type: content.ComponentText, Props: map[string]any{}},
	}})
	assert.Equal(t, 1, strings.Count(partial, DropComponentsText))

	container := renderDesign(content.ComponentNode{ID: "b1", Type: content.ComponentContainer, Props: map[string]any{}})
	assert.Contains(t, container, DropFieldsText)

	form := renderDesign(content.ComponentNode{ID: "fc", Type: content.ComponentFormContainer, Props: map[string]any{}})
	assert.Contains(t, form, DropFieldsText)
	assert.NotContains(t, form, "<form")
}
