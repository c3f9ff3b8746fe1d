package templates

import (
	"html/template"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
)

const (
	UserLoginAction  = "/api/auth/login"
	AdminLoginAction = "/api/auth/admin/login"
)

var loginTmpl = template.Must(template.New("login").Parse(
	`{{define "login"}}<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>{{.Heading}} | {{.AppTitle}}</title>` +
		`<script src="` + tailwindScript + `"></script></head><body class="bg-gray-50 min-h-screen flex items-center justify-center">` +
		`<div class="w-full max-w-sm bg-white rounded-lg shadow-sm border border-gray-200 p-8">` +
		`<div class="flex items-center gap-2 mb-6">{{if .Icon}}<img src="{{.Icon}}" alt="" class="h-8 w-8 rounded">{{end}}<h1 class="text-xl font-semibold text-gray-900">{{.Heading}}</h1></div>` +
		`{{if .Error}}<div class="mb-4 p-3 rounded bg-red-50 text-red-700 text-sm">{{.Error}}</div>{{end}}` +
		`<form method="post" action="{{.Action}}" class="space-y-4">` +
		`<div><label for="username" class="block text-sm font-medium text-gray-700 mb-1">Username</label><input id="username" name="username" type="text" value="{{.Username}}" required autocomplete="username" class="` + formInputClasses + `"></div>` +
		`<div><label for="password" class="block text-sm font-medium text-gray-700 mb-1">Password</label><input id="password" name="password" type="password" required autocomplete="current-password" class="` + formInputClasses + `"></div>` +
		`<button type="submit" class="w-full px-4 py-2 rounded-md bg-blue-600 text-white font-medium hover:bg-blue-700">Sign in</button></form></div></body></html>{{end}}`,
))

const formInputClasses = "w-full px-3 py-2 border border-gray-300 rounded-md focus:outline-none focus:ring-2 focus:ring-blue-500"

type loginData struct {
	Heading  string
	AppTitle string
	Icon     string
	Action   string
	Username string
	Error    string
}

// RenderUserLogin renders the end-user sign in page.
func RenderUserLogin(settings content.Settings, username, errMsg string) string {
	return renderLogin(loginData{
		Heading:  "Sign in",
		AppTitle: appTitleOf(settings),
		Icon:     settings.AppIcon,
		Action:   UserLoginAction,
		Username: username,
		Error:    errMsg,
	})
}

// RenderAdminLogin renders the administrator sign in page.
func RenderAdminLogin(settings content.Settings, username, errMsg string) string {
	return renderLogin(loginData{
		Heading:  "Admin sign in",
		AppTitle: appTitleOf(settings),
		Icon:     settings.AppIcon,
		Action:   AdminLoginAction,
		Username: username,
		Error:    errMsg,
	})
}

func renderLogin(data loginData) string {
	return executeNamed(loginTmpl, "login", data)
}

func appTitleOf(settings content.Settings) string {
	if settings.AppTitle == "" {
		return content.DefaultAppTitle
	}
	return settings.AppTitle
}
