// Package i18n selects the admin UI language and translates editor labels
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
)

// DefaultLang is the fallback language
var DefaultLang = language.English

// SupportedLangs are the languages the editor ships labels for
var SupportedLangs = []language.Tag{
	language.English,
	language.Vietnamese,
}

var matcher = language.NewMatcher(SupportedLangs)

// Language is one entry of the language switcher.
type Language struct {
	Code string
	Name string
}

// Languages lists the switcher entries in display order.
var Languages = []Language{
	{Code: "vi", Name: "Tiếng Việt"},
	{Code: "en", Name: "English"},
}

// Message keys of the editor chrome.
const (
	KeyComponents = "editor.components"
	KeyViewPage   = "editor.viewPage"
	KeyLanguage   = "editor.language"
)

var messages = map[string][2]string{
	KeyComponents: {"Components", "Thành phần"},
	KeyViewPage:   {"View page", "Xem trang"},
	KeyLanguage:   {"Language", "Ngôn ngữ"},

	paletteKey(content.ComponentTable):             {"Data Table", "Bảng dữ liệu"},
	paletteKey(content.ComponentDetail):            {"Detail View", "Xem chi tiết"},
	paletteKey(content.ComponentForm):              {"Legacy Form", "Biểu mẫu cũ"},
	paletteKey(content.ComponentText):              {"Text Block", "Khối văn bản"},
	paletteKey(content.ComponentButton):            {"Button", "Nút bấm"},
	paletteKey(content.ComponentImage):             {"Image", "Hình ảnh"},
	paletteKey(content.ComponentPDF):               {"PDF Viewer", "Trình xem PDF"},
	paletteKey(content.ComponentIframe):            {"Iframe", "Iframe"},
	paletteKey(content.ComponentContainer):         {"Container", "Khung chứa"},
	paletteKey(content.ComponentFormContainer):     {"Form Container", "Khung biểu mẫu"},
	paletteKey(content.ComponentLayout2Col):        {"2 Columns", "2 cột"},
	paletteKey(content.ComponentLayout3Col):        {"3 Columns", "3 cột"},
	paletteKey(content.ComponentFormText):          {"Text Field", "Trường văn bản"},
	paletteKey(content.ComponentFormPassword):      {"Password", "Mật khẩu"},
	paletteKey(content.ComponentFormCheckbox):      {"Checkbox", "Hộp kiểm"},
	paletteKey(content.ComponentFormMultiCheckbox): {"Multi Checkbox", "Nhiều hộp kiểm"},
	paletteKey(content.ComponentFormRadio):         {"Radio Group", "Nhóm lựa chọn"},
	paletteKey(content.ComponentFormSelect):        {"Select", "Danh sách chọn"},
	paletteKey(content.ComponentFormFile):          {"File Upload", "Tải tệp lên"},
}

var cat = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(DefaultLang))
	for key, texts := range messages {
		for i, tag := range SupportedLangs {
			if err := b.SetString(tag, key, texts[i]); err != nil {
				panic(err)
			}
		}
	}
	return b
}

func paletteKey(t content.ComponentType) string {
	return "palette." + string(t)
}

// MatchLanguage returns the best supported language for an Accept-Language
// header value
func MatchLanguage(acceptLang string) language.Tag {
	tags, _, _ := language.ParseAcceptLanguage(acceptLang)
	_, index, _ := matcher.Match(tags...)
	return SupportedLangs[index]
}

// Parse returns the supported language for code, e.g. the switcher value.
func Parse(code string) (language.Tag, bool) {
	tag, err := language.Parse(code)
	if err != nil {
		return DefaultLang, false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return DefaultLang, false
	}
	return SupportedLangs[index], true
}

// Resolve prefers an explicit choice over the browser's preference.
func Resolve(chosen, acceptLang string) language.Tag {
	if tag, ok := Parse(chosen); ok {
		return tag
	}
	return MatchLanguage(acceptLang)
}

// NewPrinter returns a message printer for the given language
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}

// Text translates a message key.
func Text(p *message.Printer, key string) string {
	return p.Sprintf(key)
}

// PaletteLabel is the palette entry text of a component type.
func PaletteLabel(p *message.Printer, t content.ComponentType) string {
	if _, ok := messages[paletteKey(t)]; !ok {
		return string(t)
	}
	return p.Sprintf(paletteKey(t))
}
