package server

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

// Template functions available in all templates.
var templateFuncs = template.FuncMap{
	"join": func(items []string, sep string) string {
		return strings.Join(items, sep)
	},
	"truncate": func(s string, n int) string {
		if len(s) <= n {
			return s
		}
		return s[:n] + "..."
	},
}

// renderTemplate renders a page template inside the shared layout.
func renderTemplate(w io.Writer, name string, data map[string]any) error {
	content, ok := templates[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}

	layout, ok := templates["layout"]
	if !ok {
		return fmt.Errorf("layout template not found")
	}

	tmpl, err := template.New("layout").Funcs(templateFuncs).Parse(layout)
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}

	if _, err := tmpl.New("content").Parse(content); err != nil {
		return fmt.Errorf("parse content: %w", err)
	}

	return tmpl.Execute(w, data)
}

// templates holds all template content. In a production app, these would
// be loaded from files.
var templates = map[string]string{
	"layout": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 min-h-screen">
    {{if .User}}
    <nav class="bg-white shadow-sm border-b">
        <div class="max-w-5xl mx-auto px-4 flex justify-between h-14">
            <div class="flex items-center space-x-6">
                <a href="/" class="text-lg font-bold text-indigo-600">SPQ</a>
                <a href="/" class="text-sm text-gray-500 hover:text-gray-700">Dashboard</a>
                <a href="/quotes" class="text-sm text-gray-500 hover:text-gray-700">Quotes</a>
                <a href="/filters" class="text-sm text-gray-500 hover:text-gray-700">Filters</a>
            </div>
            <div class="flex items-center">
                <span class="text-sm text-gray-500 mr-4">{{.User.Username}}</span>
                <form action="/logout" method="POST">
                    <button type="submit" class="text-sm text-gray-500 hover:text-gray-700">Logout</button>
                </form>
            </div>
        </div>
    </nav>
    {{end}}

    <main class="max-w-5xl mx-auto py-6 px-4">
        {{template "content" .}}
    </main>
</body>
</html>`,

	"login": `{{define "content"}}
<div class="max-w-md mx-auto mt-12 space-y-6">
    <h2 class="text-center text-2xl font-bold text-gray-900">South Park Quotes</h2>

    {{if eq .Reason "unauthenticated"}}
    <div class="rounded-md bg-yellow-50 p-4 text-sm text-yellow-800">
        Please sign in to continue.
    </div>
    {{else if eq .Reason "forbidden"}}
    <div class="rounded-md bg-yellow-50 p-4 text-sm text-yellow-800">
        Your account is missing the required
        {{if .RequiredRole}}<strong>{{.RequiredRole}}</strong>{{end}} role.
        Sign in with a different account to continue.
    </div>
    {{end}}

    {{if .Error}}
    <div class="rounded-md bg-red-50 p-4 text-sm text-red-700">{{.Error}}</div>
    {{end}}

    <form class="space-y-4" action="/login" method="POST">
        <input type="hidden" name="redirectTo" value="{{.RedirectTo}}">
        <div>
            <label for="username" class="block text-sm text-gray-700">Username</label>
            <input id="username" name="username" type="text" value="{{.Username}}" required
                   class="mt-1 block w-full rounded-md border-gray-300 px-3 py-2 border">
        </div>
        <div>
            <label for="password" class="block text-sm text-gray-700">Password</label>
            <input id="password" name="password" type="password" required
                   class="mt-1 block w-full rounded-md border-gray-300 px-3 py-2 border">
        </div>
        <button type="submit"
                class="w-full rounded-md bg-indigo-600 py-2 text-white hover:bg-indigo-700">
            Sign in
        </button>
    </form>
</div>
{{end}}`,

	"dashboard": `{{define "content"}}
<h1 class="text-2xl font-bold text-gray-900 mb-6">Dashboard</h1>
<p class="text-sm text-gray-500 mb-4">{{len .Quotes}} quotes loaded from the live feed.</p>
<div class="grid gap-4 sm:grid-cols-2">
    {{range .Quotes}}
    <div class="bg-white rounded-lg shadow-sm border p-4">
        <blockquote class="text-gray-900">&ldquo;{{.Quote}}&rdquo;</blockquote>
        <p class="mt-2 text-sm text-gray-500">&mdash; {{.Character}}</p>
    </div>
    {{end}}
</div>
{{end}}`,

	"quotes": `{{define "content"}}
<h1 class="text-2xl font-bold text-gray-900 mb-6">Quotes</h1>

{{if .Updated}}
<div class="rounded-md bg-green-50 p-4 mb-4 text-sm text-green-800">
    Quote <strong>{{.Updated}}</strong> updated.
</div>
{{end}}

<div class="space-y-4">
    {{range .Quotes}}
    <form action="/quotes/update" method="POST" class="bg-white rounded-lg shadow-sm border p-4">
        <input type="hidden" name="id" value="{{.ID}}">
        <div class="flex gap-4">
            <div class="flex-1 space-y-2">
                <textarea name="quote" rows="2" required
                          class="block w-full rounded-md border-gray-300 px-3 py-2 border">{{.Quote}}</textarea>
                <input name="character" type="text" value="{{.Character}}" required
                       class="block w-full rounded-md border-gray-300 px-3 py-2 border">
            </div>
            <div class="flex items-center">
                <button type="submit"
                        class="rounded-md bg-indigo-600 px-4 py-2 text-sm text-white hover:bg-indigo-700">
                    Save
                </button>
            </div>
        </div>
        <p class="mt-2 text-xs text-gray-400">{{.ID}}</p>
    </form>
    {{end}}
</div>
{{end}}`,

	"filters": `{{define "content"}}
<h1 class="text-2xl font-bold text-gray-900 mb-6">Filters</h1>
<div class="bg-white rounded-lg shadow-sm border p-4">
    <p class="text-gray-900">Signed in as <strong>{{.User.Username}}</strong></p>
    <p class="mt-2 text-sm text-gray-500">Roles: {{join .User.Roles ", "}}</p>
    <p class="mt-4 text-sm text-gray-400">Filter tooling is a prototype; more to come.</p>
</div>
{{end}}`,

	"error": `{{define "content"}}
<div class="max-w-md mx-auto mt-12 text-center space-y-4">
    <h1 class="text-2xl font-bold text-gray-900">Something went wrong</h1>
    <p class="text-gray-500">{{.Message}}</p>
    <a href="/" class="text-indigo-600 hover:text-indigo-700 text-sm">Back to the dashboard</a>
</div>
{{end}}`,
}
