package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	domainsvc "github.com/AtRiskMedia/admini-go/internal/domain/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/security"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"orders", "orders"},
		{"/Orders/:id/Line Items/", "orders/:id/line-items"},
		{"  ", ""},
		{"reports//Q1", "reports/q1"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSlug(tt.raw))
		})
	}
}

func TestSavePageCommand(t *testing.T) {
	doc := sampleDocument()

	t.Run("new page gets an id", func(t *testing.T) {
		cmd := &SavePageCommand{Page: content.PageDefinition{Name: "Customers", Slug: "/Customers"}}
		require.NoError(t, cmd.Apply(doc))
		assert.NotEmpty(t, cmd.Page.ID)
		page, ok := doc.FindPage(cmd.Page.ID)
		require.True(t, ok)
		assert.Equal(t, "customers", page.Slug)
	})

	t.Run("metadata edit keeps components", func(t *testing.T) {
		cmd := &SavePageCommand{Page: content.PageDefinition{ID: "list", Name: "All orders", Slug: "orders"}}
		require.NoError(t, cmd.Apply(doc))
		page, _ := doc.FindPage("list")
		assert.Equal(t, "All orders", page.Name)
		assert.Len(t, page.Components, 3)
	})

	t.Run("name required", func(t *testing.T) {
		err := (&SavePageCommand{Page: content.PageDefinition{Slug: "x"}}).Apply(doc)
		assert.ErrorIs(t, err, ErrInvalidCommand)
	})
}

func TestSaveAPICommandDefaults(t *testing.T) {
	doc := sampleDocument()
	cmd := &SaveAPICommand{API: content.ApiDefinition{Name: "Stock", URL: "https://x/stock", Method: " post "}}
	require.NoError(t, cmd.Apply(doc))

	api, ok := content.FindAPI(doc.APIs, cmd.API.ID)
	require.True(t, ok)
	assert.Equal(t, content.MethodPost, api.Method)
	assert.NotNil(t, api.Headers)

	err := (&SaveAPICommand{API: content.ApiDefinition{Name: "No url"}}).Apply(doc)
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestDeleteCommandsReportMissing(t *testing.T) {
	doc := sampleDocument()
	assert.ErrorIs(t, DeleteAPICommand{ID: "gone"}.Apply(doc), ErrAPINotFound)
	assert.ErrorIs(t, DeletePageCommand{ID: "gone"}.Apply(doc), ErrPageNotFound)
	assert.ErrorIs(t, DeleteUserCommand{ID: "gone"}.Apply(doc), ErrUserNotFound)
}

func TestSaveUserCommand(t *testing.T) {
	doc := sampleDocument()

	create := &SaveUserCommand{User: content.User{Username: " ann ", Password: "secret"}}
	require.NoError(t, create.Apply(doc))
	assert.Equal(t, "ann", create.User.Username)
	assert.True(t, strings.HasPrefix(create.User.Password, "$2"))
	assert.True(t, security.CheckPassword(create.User.Password, "secret"))
	assert.NotNil(t, create.User.Scopes)

	t.Run("empty password keeps hash", func(t *testing.T) {
		update := &SaveUserCommand{User: content.User{ID: create.User.ID, Username: "ann", Scopes: []string{"s1"}}}
		require.NoError(t, update.Apply(doc))
		user, ok := doc.FindUser(create.User.ID)
		require.True(t, ok)
		assert.Equal(t, create.User.Password, user.Password)
		assert.Equal(t, []string{"s1"}, user.Scopes)
	})

	t.Run("username in use", func(t *testing.T) {
		err := (&SaveUserCommand{User: content.User{Username: "ANN", Password: "x"}}).Apply(doc)
		assert.ErrorIs(t, err, ErrUsernameInUse)
	})

	t.Run("new user needs a password", func(t *testing.T) {
		err := (&SaveUserCommand{User: content.User{Username: "bob"}}).Apply(doc)
		assert.ErrorIs(t, err, ErrInvalidCommand)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := (&SaveUserCommand{User: content.User{ID: "nope", Username: "carl", Password: "x"}}).Apply(doc)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestSaveSettingsCommand(t *testing.T) {
	doc := sampleDocument()
	doc.Settings.AppIcon = "data:image/webp;base64,AAAA"

	require.NoError(t, SaveSettingsCommand{Settings: content.Settings{AppTitle: "Ops", Theme: content.ThemeDark}}.Apply(doc))
	assert.Equal(t, "Ops", doc.Settings.AppTitle)
	assert.Equal(t, content.ThemeDark, doc.Settings.Theme)
	assert.Equal(t, "data:image/webp;base64,AAAA", doc.Settings.AppIcon)

	err := SaveSettingsCommand{Settings: content.Settings{Theme: "neon"}}.Apply(doc)
	assert.ErrorIs(t, err, ErrUnknownTheme)
}

func TestSaveSidebarCommand(t *testing.T) {
	doc := sampleDocument()
	items := []content.SidebarItem{
		{Label: "Sales", Type: content.SidebarSection, Children: []content.SidebarItem{
			{Label: "Orders", Type: content.SidebarLink, PageID: "list"},
		}},
	}
	require.NoError(t, SaveSidebarCommand{Items: items}.Apply(doc))
	require.Len(t, doc.Sidebar, 1)
	assert.NotEmpty(t, doc.Sidebar[0].ID)
	assert.NotEmpty(t, doc.Sidebar[0].Children[0].ID)

	nested := []content.SidebarItem{
		{Label: "Outer", Type: content.SidebarSection, Children: []content.SidebarItem{
			{Label: "Inner", Type: content.SidebarSection},
		}},
	}
	assert.ErrorIs(t, SaveSidebarCommand{Items: nested}.Apply(doc), ErrInvalidCommand)
}

func TestNewPaletteComponent(t *testing.T) {
	field := NewPaletteComponent(content.ComponentFormText)
	assert.Equal(t, "New "+string(content.ComponentFormText), field.Label)
	assert.True(t, strings.HasPrefix(field.Props["name"].(string), "field_"))
	assert.Nil(t, field.Children)

	layout := NewPaletteComponent(content.ComponentFormContainer)
	assert.NotNil(t, layout.Children)
	assert.NotEmpty(t, layout.ID)
}

func TestComponentCommands(t *testing.T) {
	doc := sampleDocument()

	insert := &InsertComponentCommand{PageID: "list", Type: content.ComponentFormContainer, Column: -1}
	require.NoError(t, insert.Apply(doc))

	field := &InsertComponentCommand{PageID: "list", ParentID: insert.Node.ID, Type: content.ComponentFormText, Column: -1}
	require.NoError(t, field.Apply(doc))

	page, _ := doc.FindPage("list")
	container, ok := domainsvc.FindComponent(page.Components, insert.Node.ID)
	require.True(t, ok)
	require.Len(t, container.Children, 1)
	assert.Equal(t, field.Node.ID, container.Children[0].ID)

	require.NoError(t, MoveComponentCommand{PageID: "list", ComponentID: "b1", ParentID: insert.Node.ID, Column: -1}.Apply(doc))
	page, _ = doc.FindPage("list")
	container, _ = domainsvc.FindComponent(page.Components, insert.Node.ID)
	assert.Len(t, container.Children, 2)

	err := MoveComponentCommand{PageID: "list", ComponentID: insert.Node.ID, ParentID: field.Node.ID, Column: -1}.Apply(doc)
	assert.Error(t, err)

	require.NoError(t, DeleteComponentCommand{PageID: "list", ComponentID: insert.Node.ID}.Apply(doc))
	page, _ = doc.FindPage("list")
	_, ok = domainsvc.FindComponent(page.Components, field.Node.ID)
	assert.False(t, ok)

	assert.ErrorIs(t, (&InsertComponentCommand{PageID: "list", Type: "marquee"}).Apply(doc), ErrInvalidCommand)
	assert.ErrorIs(t, (&InsertComponentCommand{PageID: "gone", Type: content.ComponentText}).Apply(doc), ErrPageNotFound)
}
