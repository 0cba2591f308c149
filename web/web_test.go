package web

import (
	"bytes"
	"testing"

	"cafelist/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_AllViewsParse(t *testing.T) {
	tmpl := Templates()
	for _, name := range []string{"index.html", "admin.html", "add.html", "login.html", "error.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestTemplates_IndexEscapesAndCounts(t *testing.T) {
	var buf bytes.Buffer
	err := Templates().ExecuteTemplate(&buf, "index.html", map[string]interface{}{
		"Title": "Cafes",
		"Count": 1,
		"Cafes": []model.Cafe{{ID: 1, Name: "<b>Joe's</b>", HasWifi: true}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "1 cafes listed")
	assert.Contains(t, out, "&lt;b&gt;Joe&#39;s&lt;/b&gt;")
	assert.NotContains(t, out, "/delete/")
}

func TestTemplates_AdminDeleteIsAPostForm(t *testing.T) {
	var buf bytes.Buffer
	err := Templates().ExecuteTemplate(&buf, "admin.html", map[string]interface{}{
		"Title":     "Cafes (admin)",
		"Count":     1,
		"AdminRoot": "/admin",
		"CSRFToken": "tok",
		"Cafes":     []model.Cafe{{ID: 4, Name: "Joe's"}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `<form class="delete" method="post" action="/admin/delete/4">`)
	assert.Contains(t, out, `name="csrf_token" value="tok"`)
	assert.NotContains(t, out, `href="/admin/delete/`)
}
