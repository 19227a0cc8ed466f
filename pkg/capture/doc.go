// Package capture models captured structured-data snapshots.
//
// A [Bundle] is what a capture collaborator returns for one target rendered
// one way: named slots (for example "dom" and "server"), each holding the
// ordered list of JSON-LD documents extracted from that view of the page,
// plus optional logs.
//
// Rendering a page in a headless browser is not done here. [Capturer] is the
// boundary to such a service. [FileCapturer] implements it for local HTML and
// bundle files and [HTTPCapturer] for served HTML, both using [ExtractHTML]
// to pull ld+json blocks out of markup. [Router] picks between the two by
// target.
//
// Parsing is tolerant: [ParseBundle] turns a malformed slot into an empty slot
// plus a warning, so a comparison view stays usable when part of a capture
// failed.
package capture
