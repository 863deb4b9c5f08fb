package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frame/pkg/view"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "echo",
			src:  "<h1>{{ $title }}</h1>",
			want: "<h1>{{ $.title }}</h1>",
		},
		{
			name: "pipeline",
			src:  "{{ $post.Body | markdown }}",
			want: "{{ $.post.Body | markdown }}",
		},
		{
			name: "string literals untouched",
			src:  `{{ printf "$x %s" $name }}`,
			want: `{{ printf "$x %s" $.name }}`,
		},
		{
			name: "foreach",
			src:  "#foreach($users as $user)<li>{{ $user.Name }}</li>#endforeach",
			want: "{{ range $user := $.users }}<li>{{ $user.Name }}</li>{{ end }}",
		},
		{
			name: "foreach with key",
			src:  "#foreach ($tags as $i => $tag){{ $i }}={{ $tag }} #endforeach",
			want: "{{ range $i, $tag := $.tags }}{{ $i }}={{ $tag }} {{ end }}",
		},
		{
			name: "loop variable scope ends",
			src:  "#foreach($items as $item){{ $item }}#endforeach{{ $item }}",
			want: "{{ range $item := $.items }}{{ $item }}{{ end }}{{ $.item }}",
		},
		{
			name: "conditionals",
			src:  `#if($admin)A#elseif(eq $role "editor")E#else U#endif`,
			want: `{{ if $.admin }}A{{ else if eq $.role "editor" }}E{{ else }} U{{ end }}`,
		},
		{
			name: "nested parentheses",
			src:  "#if(gt (len $items) 0)some#endif",
			want: "{{ if gt (len $.items) 0 }}some{{ end }}",
		},
		{
			name: "parenthesis inside string",
			src:  `#if(eq $s ")")x#endif`,
			want: `{{ if eq $.s ")" }}x{{ end }}`,
		},
		{
			name: "csrf",
			src:  "<form>#csrf</form>",
			want: "<form>" + view.CSRFInput + "</form>",
		},
		{
			name: "plain hashes",
			src:  `<a href="#top">#1</a><style>p{color:#ifffff}</style> #if no paren`,
			want: `<a href="#top">#1</a><style>p{color:#ifffff}</style> #if no paren`,
		},
		{
			name: "nested blocks",
			src:  "#foreach($rows as $row)#if($row.Active){{ $row.Name }}#endif#endforeach",
			want: "{{ range $row := $.rows }}{{ if $row.Active }}{{ $row.Name }}{{ end }}{{ end }}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := view.Compile(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"unclosed if", "a\n#if($x) b", "line 2: #if is never closed"},
		{"unclosed foreach", "#foreach($a as $b)", "#foreach is never closed"},
		{"stray endif", "#endif", "#endif without opening block"},
		{"mismatched end", "#if($a)#endforeach", "#endforeach inside #if opened on line 1"},
		{"else outside if", "#foreach($a as $b)#else#endforeach", "#else inside #foreach"},
		{"duplicate else", "#if($a)#else#else#endif", "duplicate #else"},
		{"elseif after else", "#if($a)#else#elseif($b)#endif", "#elseif after #else"},
		{"bad foreach", "#foreach($items)#endforeach", "#foreach expects"},
		{"empty condition", "#if( )#endif", "#if needs an expression"},
		{"unclosed action", "{{ $title ", "unclosed {{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := view.Compile(tt.src)
			require.ErrorIs(t, err, view.ErrCompile)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
