package layout

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"kitchenops/internal/views/theme"
)

// Layout wraps sidebar and content in the application shell for the given theme.
func Layout(title string, sidebar, content templ.Component, sidebarOpen bool, def ThemeDefinition) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		resolved := theme.Resolve(def.ID)

		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><link rel="stylesheet" href="/assets/app.css"><script src="/assets/htmx.min.js" defer></script></head><body class="%s" data-theme="%s"><div class="%s">`,
			templ.EscapeString(title),
			templ.EscapeString(resolved.BodyClass),
			templ.EscapeString(def.ID),
			templ.EscapeString(bodyWrapperClass(sidebarOpen)),
		); err != nil {
			return err
		}

		if sidebar != nil {
			if err := sidebar.Render(ctx, w); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, `<main id="workspace" class="%s %s">`,
			templ.EscapeString(mainClass(sidebarOpen)),
			templ.EscapeString(resolved.ShellClass),
		); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</main></div></body></html>`)
		return err
	})
}

func bodyWrapperClass(sidebarOpen bool) string {
	if sidebarOpen {
		return "flex min-h-screen"
	}
	return "min-h-screen"
}

func mainClass(sidebarOpen bool) string {
	if sidebarOpen {
		return "flex-1 p-6 lg:ml-64"
	}
	return "mx-auto max-w-3xl p-6"
}
