package tracker

import "regexp"

// Matches @handle tokens at word boundaries. The \B keeps email
// addresses ("user@domain") from being picked up as mentions.
var mentionPattern = regexp.MustCompile(`\B@([a-zA-Z0-9_][a-zA-Z0-9_-]*)`)

// FindMentions extracts the @handles mentioned in free text, in order
// of appearance, without duplicates.
func FindMentions(text string) []string {
	var mentions []string
	seen := make(map[string]bool)

	for _, match := range mentionPattern.FindAllStringSubmatch(text, -1) {
		handle := match[1]
		if seen[handle] {
			continue
		}
		seen[handle] = true
		mentions = append(mentions, handle)
	}

	return mentions
}
