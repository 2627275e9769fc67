package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinks(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"post", DocumentLink("https://shop.example/", "post", "hello-world"), "https://shop.example/hello-world/"},
		{"page", DocumentLink("https://shop.example", "page", "about"), "https://shop.example/about/"},
		{"product", DocumentLink("https://shop.example", "product", "blue-mug"), "https://shop.example/product/blue-mug/"},
		{"empty slug", DocumentLink("https://shop.example", "post", ""), ""},
		{"escaped slug", DocumentLink("https://shop.example", "post", "a b"), "https://shop.example/a%20b/"},
		{"category", TermLink("https://shop.example", "category", "news"), "https://shop.example/category/news/"},
		{"product category", TermLink("https://shop.example", "product_cat", "mugs"), "https://shop.example/product-category/mugs/"},
		{"other taxonomy", TermLink("https://shop.example", "brand", "acme"), "https://shop.example/brand/acme/"},
		{"term empty slug", TermLink("https://shop.example", "category", "/"), ""},
		{"home", HomeLink("https://shop.example///"), "https://shop.example/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  plain   text ", "plain text"},
		{"<p>Hello <em>world</em></p>", "Hello world"},
		{"<p>One</p><p>Two</p><!-- hidden -->", "One Two"},
		{"Fish &amp; chips<style>p{}</style>", "Fish & chips"},
		{"<div>Sale <script>track()</script>today</div>", "Sale today"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, plainText(tt.in), tt.in)
	}
}
