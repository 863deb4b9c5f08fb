// Package view is a small template engine for server-rendered pages.
//
// View files use a directive syntax that is compiled to html/template, so
// output is escaped for its HTML context:
//
//	<h1>{{ $title }}</h1>
//	#if(gt (len $users) 0)
//	<ul>
//	#foreach($users as $user)
//	    <li>{{ $user.Name }}</li>
//	#endforeach
//	</ul>
//	#else
//	<p>No users yet.</p>
//	#endif
//	<form method="post">#csrf ...</form>
//
// Conditions and pipelines are html/template expressions in which $name
// reads the view data. The sanitize and markdown functions render trusted
// HTML from user content through bluemonday.
//
// Compiled templates are cached per file and recompiled when the file's
// modification time changes:
//
//	views := view.NewFromDir("views")
//	app := frame.New(frame.WithViews(views))
//	...
//	return c.View(http.StatusOK, "users/index", map[string]any{"users": users})
package view
