// Package view renders the few HTML documents the portal serves itself.
package view

import (
	"html/template"
	"io"

	"portal/internal/errors"

	"github.com/labstack/echo/v4"
)

// Template names.
const (
	Login     = "login"
	Dashboard = "dashboard"
	NoTenant  = "no-tenant"
)

// NavItem is one entry of the dashboard navigation.
type NavItem struct {
	Label string
	Path  string
}

// LoginPage is the data of the login document.
type LoginPage struct {
	Title        string
	CanRegister  bool
	ResetEnabled bool
}

// DashboardPage is the data of the dashboard shell.
type DashboardPage struct {
	Title string
	Name  string
	Role  string
	Nav   []NavItem
}

const layout = `{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.}}</title>
</head>
<body>{{end}}
{{define "foot"}}</body>
</html>{{end}}
{{define "login"}}{{template "head" .Title}}
<main>
<h1>{{.Title}}</h1>
<form id="login">
<label>Email <input name="email" type="email" autocomplete="username" required></label>
<label>Password <input name="password" type="password" autocomplete="current-password" required></label>
<label><input name="remember" type="checkbox" checked> Remember me</label>
<button type="submit">Sign in</button>
<p id="error" role="alert"></p>
</form>
{{if .ResetEnabled}}<p><a href="#reset">Forgot password?</a></p>{{end}}
{{if .CanRegister}}<p><a href="#register">Register as a professional</a></p>{{end}}
</main>
<script>
document.getElementById("login").addEventListener("submit", async (e) => {
  e.preventDefault();
  const f = new FormData(e.target);
  const res = await fetch("/api/auth/login", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({email: f.get("email"), password: f.get("password"), remember: f.get("remember") === "on"}),
  });
  const body = await res.json();
  if (body.success) { location.replace("/"); return; }
  document.getElementById("error").textContent = body.error || "Login failed";
});
</script>
{{template "foot"}}{{end}}
{{define "dashboard"}}{{template "head" .Title}}
<header>
<p>Welcome, {{.Name}}{{with .Role}} ({{.}}){{end}}</p>
<button id="logout">Sign out</button>
</header>
<nav><ul>{{range .Nav}}<li><a href="{{.Path}}">{{.Label}}</a></li>{{end}}</ul></nav>
<main id="app"></main>
<script>
document.getElementById("logout").addEventListener("click", async () => {
  await fetch("/api/auth/logout", {method: "POST"});
  location.replace("/");
});
</script>
{{template "foot"}}{{end}}
{{define "no-tenant"}}{{template "head" "Not found"}}
<main><h1>404</h1><p>No portal is configured for this address.</p></main>
{{template "foot"}}{{end}}`

// Renderer implements echo.Renderer over the portal templates.
type Renderer struct {
	templates *template.Template
}

// New parses the templates.
func New() *Renderer {
	return &Renderer{templates: template.Must(template.New("portal").Parse(layout))}
}

// Render executes the named template.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return errors.Wrapf(r.templates.ExecuteTemplate(w, name, data), "render %s", name)
}
