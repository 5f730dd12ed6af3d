// Copyright (c) 2026 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package capabilities implements message capability negotiation.

Each party advertises the compression algorithms, languages, and
encoder formats it supports; intersecting both advertisements yields
the options legal for an exchange. Unknown entries from newer protocol
revisions are dropped silently on parse, never treated as faults.
*/
package capabilities
