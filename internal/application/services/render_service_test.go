package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/presentation/templates"
	elements "github.com/AtRiskMedia/admini-go/internal/presentation/templates/elements"
)

func TestRenderShellDoesNotFetch(t *testing.T) {
	f := newFixture(t, sampleDocument())

	result := f.render.RenderShell("/orders", "")
	require.True(t, result.Found)
	assert.Contains(t, result.HTML, templates.InitializingText)
	assert.Contains(t, result.HTML, templates.ContentURL("/orders"))
	assert.Empty(t, f.executor.requests)
}

func TestRenderShellNotFound(t *testing.T) {
	f := newFixture(t, sampleDocument())

	result := f.render.RenderShell("/nowhere", "")
	assert.False(t, result.Found)
	assert.Contains(t, result.HTML, templates.NotFoundText)
}

func TestRenderShellHome(t *testing.T) {
	f := newFixture(t, sampleDocument())

	result := f.render.RenderShell("/", "")
	assert.True(t, result.Found)
	assert.NotContains(t, result.HTML, templates.NotFoundText)
}

func TestRenderContentAcquiresTokenFirst(t *testing.T) {
	f := newFixture(t, sampleDocument())
	f.executor.responses["https://x/login"] = `{"data":{"token":"abc"}}`
	f.executor.responses["https://x/orders"] = `[{"id":1,"title":"Widget"},{"id":2,"title":"Gadget"}]`

	result := f.render.RenderContent(context.Background(), "/orders")
	require.True(t, result.Found)

	require.NotEmpty(t, f.executor.requests)
	assert.Equal(t, "https://x/login", f.executor.requests[0].URL)

	orders := f.executor.requestsTo("https://x/orders")
	require.Len(t, orders, 1)
	auth, ok := orders[0].Header("Authorization")
	require.True(t, ok)
	assert.Equal(t, "Bearer abc", auth)

	assert.Contains(t, result.HTML, "Widget")
	assert.Contains(t, result.HTML, "Gadget")
	assert.Contains(t, result.HTML, "<th")
}

func TestRenderContentResolvesRouteParams(t *testing.T) {
	f := newFixture(t, sampleDocument())
	f.executor.responses["https://x/orders/42"] = `{"id":42,"status":"open"}`

	result := f.render.RenderContent(context.Background(), "/orders/42")
	require.True(t, result.Found)

	assert.Len(t, f.executor.requestsTo("https://x/orders/42"), 1)
	assert.Contains(t, result.HTML, "open")
	// x1 references an API that does not exist.
	assert.Contains(t, result.HTML, elements.NoAPIText)
}

func TestRenderContentShowsFetchErrors(t *testing.T) {
	f := newFixture(t, sampleDocument())
	f.executor.failures["https://x/orders"] = 503

	result := f.render.RenderContent(context.Background(), "/orders")
	assert.Contains(t, result.HTML, "Error: Failed to fetch data (status 503)")
}

func TestRenderContentShowsNonJSONResponseAsError(t *testing.T) {
	f := newFixture(t, sampleDocument())
	f.executor.responses["https://x/orders"] = "<html>maintenance</html>"
	f.executor.responses["https://x/orders/7"] = "not json"

	list := f.render.RenderContent(context.Background(), "/orders")
	assert.Contains(t, list.HTML, "Error: "+InvalidResponseMessage)
	assert.NotContains(t, list.HTML, elements.NoDataText)

	detail := f.render.RenderContent(context.Background(), "/orders/7")
	assert.Contains(t, detail.HTML, "Error: "+InvalidResponseMessage)
}

func TestRenderContentEmptyBodyHasNoData(t *testing.T) {
	f := newFixture(t, sampleDocument())
	f.executor.responses["https://x/orders"] = ""

	result := f.render.RenderContent(context.Background(), "/orders")
	assert.Contains(t, result.HTML, elements.NoDataText)
	assert.NotContains(t, result.HTML, "Error: ")
}

func TestRenderContentWithoutAuthAPISendsNoBearer(t *testing.T) {
	doc := sampleDocument()
	doc.APIs = doc.APIs[1:]
	f := newFixture(t, doc)

	f.render.RenderContent(context.Background(), "/orders")
	orders := f.executor.requestsTo("https://x/orders")
	require.Len(t, orders, 1)
	_, ok := orders[0].Header("Authorization")
	assert.False(t, ok)
}

func TestRenderFragmentReusesSessionToken(t *testing.T) {
	f := newFixture(t, sampleDocument())
	f.executor.responses["https://x/login"] = `{"data":{"token":"abc"}}`

	sessionID, token := f.sessions.Start(context.Background(), f.documents.Document().APIs, nil)
	require.Equal(t, "abc", token)
	before := len(f.executor.requestsTo("https://x/login"))

	html, err := f.render.RenderFragment(context.Background(), "list", "t1", "/orders", sessionID)
	require.NoError(t, err)
	assert.Contains(t, html, `id="component-t1"`)
	assert.Equal(t, before, len(f.executor.requestsTo("https://x/login")))
}

func TestRenderFragmentUnknownComponent(t *testing.T) {
	f := newFixture(t, sampleDocument())

	_, err := f.render.RenderFragment(context.Background(), "list", "nope", "/orders", "")
	assert.Error(t, err)
	_, err = f.render.RenderFragment(context.Background(), "nope", "t1", "/orders", "")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestRenderDesignNeverFetches(t *testing.T) {
	f := newFixture(t, sampleDocument())

	html, err := f.render.RenderDesign("list", "t1")
	require.NoError(t, err)
	assert.Empty(t, f.executor.requests)
	assert.Contains(t, html, `data-component-id="t1"`)
	assert.Contains(t, html, "ring-2")
	assert.Contains(t, html, elements.PropertiesURL("list", "b1"))
}

func TestRenderPropertiesIncludesCanvasUpdate(t *testing.T) {
	f := newFixture(t, sampleDocument())

	html, err := f.render.RenderProperties("list", "t1", -1, "")
	require.NoError(t, err)
	assert.Contains(t, html, `hx-swap-oob`)
	assert.Contains(t, html, `name="props"`)

	_, err = f.render.RenderProperties("list", "missing", -1, "")
	assert.Error(t, err)
}

func TestRenderCanvasUpdateWithoutSelection(t *testing.T) {
	f := newFixture(t, sampleDocument())

	html, err := f.render.RenderCanvasUpdate("list", "")
	require.NoError(t, err)
	assert.Contains(t, html, templates.NoSelectionText)
	assert.Contains(t, html, templates.PageRootLabel)
}

func TestRenderLogin(t *testing.T) {
	f := newFixture(t, content.NewDocument())

	html := f.render.RenderLogin(false, "bob", "Invalid credentials")
	assert.Contains(t, html, templates.UserLoginAction)
	assert.Contains(t, html, "Invalid credentials")
	assert.Contains(t, html, `value="bob"`)
	assert.Contains(t, f.render.RenderLogin(true, "", ""), templates.AdminLoginAction)
}
