package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"kitchenops/internal/views/components"
	"kitchenops/internal/views/layout"
	"kitchenops/models"
)

func authCard(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section id="auth-card" class="auth-card"><h1>%s</h1>`, templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

func loginForm(message, email string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := components.Flash("error", message).Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w,
			`<form method="post" action="/login" hx-post="/login" hx-target="#auth-card" hx-swap="outerHTML">`+
				`<label>Email<input type="email" name="email" value="%s" required autofocus></label>`+
				`<label>Password<input type="password" name="password" required></label>`+
				`<button type="submit">Sign in</button></form>`+
				`<p>New to the kitchen? <a href="/signup">Create an account</a></p>`,
			templ.EscapeString(email))
		return err
	})
}

// LoginPartial renders the sign-in card for HTMX swaps.
func LoginPartial(message, email string) templ.Component {
	return authCard("Sign in to KitchenOps", loginForm(message, email))
}

// Login renders the full sign-in page.
func Login(message, email string) templ.Component {
	return layout.Layout("Sign in · KitchenOps", nil, LoginPartial(message, email), false, layout.ThemeByID(models.DefaultTheme))
}

func signupForm(message, name, email string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := components.Flash("error", message).Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w,
			`<form method="post" action="/signup" hx-post="/signup" hx-target="#auth-card" hx-swap="outerHTML">`+
				`<label>Name<input type="text" name="name" value="%s"></label>`+
				`<label>Email<input type="email" name="email" value="%s" required></label>`+
				`<label>Password<input type="password" name="password" minlength="8" required></label>`+
				`<label>Confirm password<input type="password" name="confirm_password" minlength="8" required></label>`+
				`<button type="submit">Create account</button></form>`+
				`<p>Already registered? <a href="/login">Sign in</a></p>`,
			templ.EscapeString(name), templ.EscapeString(email))
		return err
	})
}

// SignupPartial renders the registration card for HTMX swaps.
func SignupPartial(message, name, email string) templ.Component {
	return authCard("Create your account", signupForm(message, name, email))
}

// Signup renders the full registration page.
func Signup(message, name, email string) templ.Component {
	return layout.Layout("Sign up · KitchenOps", nil, SignupPartial(message, name, email), false, layout.ThemeByID(models.DefaultTheme))
}
