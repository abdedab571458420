// Package pagescout discovers the pages that belong to a website.
// It combines XML sitemaps, bounded internal-link crawling and common-path
// probing into one deduplicated, capped and priority-ordered page list that
// downstream auditors use as their unit of work.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, bloom/, viper/).
package pagescout
