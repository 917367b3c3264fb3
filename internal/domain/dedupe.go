// internal/domain/dedupe.go
package domain

// DedupeDrafts keeps the first draft for every reference and drops any later
// draft that repeats it. Input order is preserved. The references of dropped
// drafts are returned in the order they were dropped.
//
// Only collisions inside the batch are handled here; a reference that already
// exists in storage still fails on insert.
func DedupeDrafts(drafts []TransactionDraft) (kept []TransactionDraft, skipped []string) {
	seen := make(map[string]struct{}, len(drafts))
	kept = make([]TransactionDraft, 0, len(drafts))
	for _, d := range drafts {
		if _, ok := seen[d.Reference]; ok {
			skipped = append(skipped, d.Reference)
			continue
		}
		seen[d.Reference] = struct{}{}
		kept = append(kept, d)
	}
	return kept, skipped
}
