package view_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frame/pkg/view"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"home.html": {Data: []byte("<h1>{{ $title }}</h1>")},
		"users/index.html": {Data: []byte(
			"<ul>#foreach($users as $user)<li>{{ $user }}</li>#endforeach</ul>" +
				"#if(eq (len $users) 0)empty#else{{ len $users }} users#endif",
		)},
		"form.html":   {Data: []byte("<form>#csrf</form>")},
		"post.html":   {Data: []byte("{{ $body | markdown }}|{{ $bio | sanitize }}")},
		"broken.html": {Data: []byte("#if($a)")},
		"bad.html":    {Data: []byte("{{ $a | nofunc }}")},
	}
}

func TestEngine_Render(t *testing.T) {
	t.Parallel()

	e := view.New(testFS())

	t.Run("escapes output", func(t *testing.T) {
		t.Parallel()
		out, err := e.Render("home", map[string]any{"title": "<b>Tom & Jerry</b>"})
		require.NoError(t, err)
		assert.Equal(t, "<h1>&lt;b&gt;Tom &amp; Jerry&lt;/b&gt;</h1>", out)
	})

	t.Run("loops and conditionals", func(t *testing.T) {
		t.Parallel()
		out, err := e.Render("users/index", map[string]any{"users": []string{"ann", "bob"}})
		require.NoError(t, err)
		assert.Equal(t, "<ul><li>ann</li><li>bob</li></ul>2 users", out)

		out, err = e.Render("/users/index.html", map[string]any{"users": []string{}})
		require.NoError(t, err)
		assert.Equal(t, "<ul></ul>empty", out)
	})

	t.Run("csrf field", func(t *testing.T) {
		t.Parallel()
		out, err := e.Render("form", map[string]any{"csrf_token": "tok123"})
		require.NoError(t, err)
		assert.Equal(t, `<form><input type="hidden" name="_token" value="tok123"></form>`, out)
	})

	t.Run("markdown and sanitize", func(t *testing.T) {
		t.Parallel()
		out, err := e.Render("post", map[string]any{
			"body": "**hi**",
			"bio":  `<em>ok</em><script>alert(1)</script>`,
		})
		require.NoError(t, err)
		assert.Contains(t, out, "<strong>hi</strong>")
		assert.Contains(t, out, "<em>ok</em>")
		assert.NotContains(t, out, "<script>")
	})
}

func TestEngine_Errors(t *testing.T) {
	t.Parallel()

	e := view.New(testFS())

	_, err := e.Render("missing", nil)
	require.ErrorIs(t, err, view.ErrTemplateNotFound)

	_, err = e.Render("../secret", nil)
	require.ErrorIs(t, err, view.ErrTemplateNotFound)

	_, err = e.Render("broken", nil)
	require.ErrorIs(t, err, view.ErrCompile)
	assert.Contains(t, err.Error(), "broken.html")

	_, err = e.Render("bad", nil)
	require.ErrorIs(t, err, view.ErrParse)
}

func TestEngine_RecompilesOnChange(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"page.html": {Data: []byte("v1"), ModTime: time.Unix(100, 0)},
	}
	e := view.New(fsys)

	out, err := e.Render("page", nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", out)

	fsys["page.html"] = &fstest.MapFile{Data: []byte("v2"), ModTime: time.Unix(100, 0)}
	out, err = e.Render("page", nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", out, "unchanged mtime keeps the cached template")

	fsys["page.html"] = &fstest.MapFile{Data: []byte("v3"), ModTime: time.Unix(200, 0)}
	out, err = e.Render("page", nil)
	require.NoError(t, err)
	assert.Equal(t, "v3", out)
}

func TestEngine_WithoutReload(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"page.txt": {Data: []byte("v1"), ModTime: time.Unix(100, 0)},
	}
	e := view.New(fsys, view.WithReload(false), view.WithExtension("txt"))

	out, err := e.Render("page", nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", out)

	fsys["page.txt"] = &fstest.MapFile{Data: []byte("v2"), ModTime: time.Unix(200, 0)}
	out, err = e.Render("page", nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", out)

	e.Clear()
	out, err = e.Render("page", nil)
	require.NoError(t, err)
	assert.Equal(t, "v2", out)
}

func TestEngine_Component(t *testing.T) {
	t.Parallel()

	e := view.New(testFS(), view.WithFuncs(map[string]any{"shout": func(s string) string { return s + "!" }}))

	var buf bytes.Buffer
	require.NoError(t, e.Component("home", map[string]any{"title": "Hi"}).Render(context.Background(), &buf))
	assert.Equal(t, "<h1>Hi</h1>", buf.String())
}

func TestEngine_ConcurrentRender(t *testing.T) {
	t.Parallel()

	e := view.New(testFS())

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			out, err := e.Render("home", map[string]any{"title": "x"})
			assert.NoError(t, err)
			assert.Equal(t, "<h1>x</h1>", out)
		})
	}
	wg.Wait()
}
