/*
Package types defines the core data structures shared across restdesk.

# Overview

The types package provides the entity model for:
  - Collections, folders and requests (the tree)
  - Keyed parameter maps (path, query, header, cookie, form fields)
  - Tagged body and authentication variants
  - Request patches (unsaved draft edits)
  - Export/import documents and environments

# Base and patch

Every request carries two layers. Base fields are the committed state;
the Patch is a sparse overlay of unsaved edits. The patch overlay engine
(internal/patch) stages, commits and discards edits; this package only
defines the shapes and their copy semantics.

# Ordered parameter maps

ParamMap keeps entries keyed by a stable synthetic id while preserving
insertion order, so iteration and serialization are deterministic. It
marshals to a JSON or YAML object whose key order matches insertion
order, and restores that order on decode.

# Field tags

All serialized types use JSON and YAML tags with omitempty on optional
fields, keeping exported documents clean. The request Patch field is
deliberately not omitempty: an empty patch is still present, so "no
draft" is always observable.

# Copy semantics

Every entity has a Clone method producing a deep copy. The store hands
out only clones, so external readers can never alias live state.
*/
package types
