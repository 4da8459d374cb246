// Package pipeline runs a complete scan: it walks every scan root, scans
// every discovered file and folds the per-file reports into one result.
//
// Roots are walked concurrently and every file is scanned in its own
// goroutine; there is no concurrency limit. The run completes when the last
// scan has reported back, at which point the warn total is compared with
// the configured limit.
//
// Walk and read failures never abort a run. They are logged, collected in
// ScanResult.Errors and the remaining files are still scanned.
package pipeline
