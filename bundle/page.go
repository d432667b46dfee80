/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package bundle

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"bennypowers.dev/closuredeps/depswriter"
	"bennypowers.dev/closuredeps/source"
)

// DefaultTitle is the page title used when PageOptions.Title is empty.
const DefaultTitle = "closuredeps"

// PageOptions configures Page.
type PageOptions struct {
	// Title is the document title.
	Title string
	// Root is the directory script src attributes are relative to,
	// normally the directory the page is written to.
	Root string
	// Prefix is prepended to every src.
	Prefix string
}

// Page renders an HTML document that loads every file with a classic
// <script src> tag, in order.
func Page(w io.Writer, records []*source.Record, opts PageOptions) error {
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	head := element(atom.Head,
		element(atom.Meta).withAttr("charset", "utf-8"),
		element(atom.Title).withText(title),
	)
	body := element(atom.Body)
	for _, r := range records {
		src := opts.Prefix + depswriter.RelativePath(opts.Root, r.Path)
		body.AppendChild(element(atom.Script).withAttr("src", src).Node)
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := element(atom.Html, head, body)
	doc.AppendChild(root.Node)

	if err := html.Render(w, doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

type node struct {
	*html.Node
}

func element(a atom.Atom, children ...*node) *node {
	n := &node{&html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}}
	for _, child := range children {
		if child != nil {
			n.AppendChild(child.Node)
		}
	}
	return n
}

func (n *node) withAttr(key, val string) *node {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	return n
}

func (n *node) withText(text string) *node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
