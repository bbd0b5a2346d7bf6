package diff

import "fmt"

// Statistics summarizes a Result.
type Statistics struct {
	TotalChanges     int      `json:"total_changes"`
	SectionsChanged  []string `json:"sections_changed"`
	WordsAdded       int      `json:"words_added"`
	WordsRemoved     int      `json:"words_removed"`
	NetChange        int      `json:"net_change"`
	NetChangeDisplay string   `json:"net_change_display"`
	BeforeWordCount  int      `json:"before_word_count"`
	AfterWordCount   int      `json:"after_word_count"`
}

// Summarize derives change statistics from r. Word counts come from the
// diff itself, so a word moved within a section counts as one removal and
// one addition.
func Summarize(r *Result) *Statistics {
	s := &Statistics{SectionsChanged: []string{}}
	if r == nil {
		s.NetChangeDisplay = formatNet(0)
		return s
	}
	var total WordTally
	for _, name := range SectionOrder {
		sec := r.Section(name)
		if sec == nil {
			continue
		}
		total.add(sec.Words())
		if sec.IsChanged() {
			s.SectionsChanged = append(s.SectionsChanged, string(name))
			s.TotalChanges += sec.Changes()
		}
	}
	s.WordsAdded = total.Added
	s.WordsRemoved = total.Removed
	s.NetChange = total.Added - total.Removed
	s.NetChangeDisplay = formatNet(s.NetChange)
	s.BeforeWordCount = total.Before()
	s.AfterWordCount = total.After()
	return s
}

func formatNet(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d words", n)
	}
	return fmt.Sprintf("%d words", n)
}
