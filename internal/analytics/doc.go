// Package analytics derives statistics from journal entries held in memory:
// sentiment distributions, streaks and missed days, tag usage and weekly
// word-count averages. Nothing here performs I/O; callers load entries and
// catalogs first and pass plain slices in.
package analytics
