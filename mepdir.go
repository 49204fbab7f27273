// Package mepdir extracts staff directories from manufacturing extension
// partnership (MEP) center websites. A listing page is reduced to one
// StaffRecord per person, optionally enriched from the person's profile
// page, and written to a per-state record sink.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, excelize/).
package mepdir
