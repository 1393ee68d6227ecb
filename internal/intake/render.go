package intake

import (
	"fmt"
	"strings"

	"github.com/fedguard/appealbot/internal/models"
	"gopkg.in/telebot.v4"
)

// PageSize is the number of appeals shown per /pending page.
const PageSize = 5

func hasPrevPage(page int) bool {
	return page > 0
}

func hasNextPage(page int, total int64) bool {
	return int64(page+1)*PageSize < total
}

func renderPendingPage(appeals []*models.Appeal, page int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Pending Appeals (Page %d):\n", page+1)
	for _, appeal := range appeals {
		fmt.Fprintf(
			&b,
			"\nID: %d\nUser: @%s (ID: %d)\nType: %s\nTime: %s\n───────────────",
			appeal.ID,
			appeal.Username,
			appeal.UserID,
			appeal.AppealType,
			appeal.SubmittedISO(),
		)
	}
	return b.String()
}

// pendingMarkup returns the page navigation keyboard, or nil when neither a
// previous nor a following page exists.
func pendingMarkup(page int, total int64) *telebot.ReplyMarkup {
	var row []telebot.InlineButton
	if hasPrevPage(page) {
		row = append(row, telebot.InlineButton{
			Text: "⬅ Previous",
			Data: PageCallbackData(page - 1),
		})
	}
	if hasNextPage(page, total) {
		row = append(row, telebot.InlineButton{
			Text: "Next ➡",
			Data: PageCallbackData(page + 1),
		})
	}
	if len(row) == 0 {
		return nil
	}
	return &telebot.ReplyMarkup{InlineKeyboard: [][]telebot.InlineButton{row}}
}

func appealTypeMarkup() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			{{Text: "🔓 Fed Unban Appeal", Data: models.AppealTypeUnban.String()}},
			{{Text: "👑 Fed Admin Request", Data: models.AppealTypeAdmin.String()}},
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
