// Package schema builds schema.org structured-data graphs for one site and
// one page.
//
// # Overview
//
// A build runs in three stages, all pure functions over explicit inputs:
//
//  1. [BuildEntities] turns a site [Config] into the top-level entities
//     (WebSite, Organization, Person, Publisher and their images).
//  2. [ComposePage] turns a [PageSummary] into the page-scoped nodes
//     (WebPage or a special page type, an article, a breadcrumb list).
//  3. [graph.Assemble] merges both lists into one deduplicated document.
//
// [Build] runs all three.
//
// # Identifiers
//
// Every entity id is derived from the site root: <root>#person,
// <root>#organization, <root>#publisher, <root>#website. Image ids are the
// image URL plus a usage suffix (#logo, #person-image, #publisher-logo). Page
// composers never hold entity nodes; they point at these ids with
// [graph.Ref] values. Two builds of the same configuration agree on every id.
//
// # Identity Priority
//
// The WebSite node names exactly one primary identity in its about and
// publisher properties. [IdentityPriority] is the ordered list of roles
// consulted; the first role whose entity exists wins.
//
// # Failure Semantics
//
// Nothing in this package returns an error. Missing or invalid configuration,
// unresolvable images and pages without a title all produce fewer nodes
// rather than a failure.
package schema
