// Package ctscrape acquires clinical-trial records for a disease from
// ClinicalTrials.gov. A browser-automation pipeline walks the search listing,
// resolves each trial's detail page and streams normalized records as JSON
// lines; a structured API client produces the same record shape so both
// pipelines can be compared.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, fs/).
package ctscrape
