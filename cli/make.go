package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/spf13/cobra"
)

// DefaultControllersDir is where make:controller writes by default.
const DefaultControllersDir = "internal/controllers"

var controllerTemplate = template.Must(template.New("controller").Parse(`package {{ .Package }}

import (
	"net/http"

	"github.com/dmitrymomot/frame"
)

// {{ .Type }} handles {{ .Resource }} requests.
type {{ .Type }} struct{}

// New{{ .Type }} creates the controller.
func New{{ .Type }}() *{{ .Type }} {
	return &{{ .Type }}{}
}

// Actions declares the controller's actions.
// Register it with frame.Register("{{ .Resource }}", New{{ .Type }}()).
func (ctl *{{ .Type }}) Actions(a *frame.Actions) {
	a.Add("index", ctl.Index)
}

// Index handles the index action.
func (ctl *{{ .Type }}) Index(c frame.Context, _ frame.Args) error {
	return c.String(http.StatusOK, "This is the {{ .Type }} index method.")
}
`))

func makeControllerCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "make:controller <Name>",
		Short: "Generate a controller",
		Long: `Generate a controller with an index action.

The file is named after the controller in snake case and is never
overwritten.

Examples:
  frame make:controller Posts              # internal/controllers/posts.go
  frame make:controller BlogPostController # internal/controllers/blog_post_controller.go`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := MakeController(dir, args[0])
			if err != nil {
				return err
			}
			success(cmd, "Controller created: %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "output", "o", DefaultControllersDir, "Output directory")
	return cmd
}

// MakeController writes a controller skeleton named name into dir and
// returns the file path. An existing file is left untouched and reported as
// ErrControllerExists.
func MakeController(dir, name string) (string, error) {
	if !isExported(name) {
		return "", fmt.Errorf("%w: %q must be an exported Go identifier", ErrInvalidName, name)
	}
	if dir == "" {
		dir = DefaultControllersDir
	}

	path := filepath.Join(dir, toSnake(name)+".go")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrControllerExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	pkg := strings.ToLower(filepath.Base(filepath.Clean(dir)))
	if !isIdentifier(pkg) {
		pkg = "controllers"
	}

	var b strings.Builder
	err := controllerTemplate.Execute(&b, map[string]string{
		"Package":  pkg,
		"Type":     name,
		"Resource": strings.TrimSuffix(toSnake(name), "_controller"),
	})
	if err != nil {
		return "", err
	}

	// O_EXCL: never overwrite, even if the file appeared after the Stat.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrControllerExists, path)
		}
		return "", err
	}
	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}

// toSnake converts BlogPostController to blog_post_controller.
func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return strings.ReplaceAll(b.String(), "__", "_")
}

func isExported(s string) bool {
	if !isIdentifier(s) {
		return false
	}
	return unicode.IsUpper([]rune(s)[0])
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
