// Package printing renders operational documents (surat jalan, menu cards)
// to PDF. HTML comes from embedded html/template files and is printed by
// headless Chrome through chromedp.
package printing
