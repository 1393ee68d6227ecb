package intake

import (
	"fmt"
	"strconv"
	"strings"
)

const pageCallbackPrefix = "page_"

// PageCallbackData builds the payload carried by the previous/next buttons
// under a pending-appeals page.
func PageCallbackData(page int) string {
	return fmt.Sprintf("%s%d", pageCallbackPrefix, page)
}

// ParsePageCallback extracts the target page from a navigation payload.
func ParsePageCallback(data string) (int, bool) {
	rest, ok := strings.CutPrefix(data, pageCallbackPrefix)
	if !ok {
		return 0, false
	}
	page, err := strconv.Atoi(rest)
	if err != nil || page < 0 {
		return 0, false
	}
	return page, true
}

// normalizeCallbackData strips the "\f" unique-handler prefix telebot
// prepends to callback payloads it routed itself.
func normalizeCallbackData(data string) string {
	return strings.TrimPrefix(data, "\f")
}
