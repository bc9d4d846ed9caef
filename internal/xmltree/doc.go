// Package xmltree converts XML documents into a generic tree of ordered
// objects, arrays and strings that serializes naturally to JSON.
//
// The conversion follows the rules used by the nomenclature consumers:
//   - element names are lower-cased, attribute names are kept as-is
//   - the root element is wrapped: {"root": value}
//   - attributes are merged into their element as plain fields
//   - a child tag seen once is stored bare, a repeated tag becomes an array
//   - whitespace-only text is dropped; text next to attributes or children
//     is kept under the "_" key; a text-only element becomes its string
//
// Object keeps keys in document order so that the JSON output mirrors the
// source layout instead of Go's sorted map order.
package xmltree
