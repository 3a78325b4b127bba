package bot

import (
	"fmt"
	"strconv"
	"strings"

	"bazar-bot/internal/intake"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return "@" + u.UserName
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return strconv.FormatInt(u.ID, 10)
}

type callbackData struct {
	action       string
	submissionID int64
	tagIndex     int
}

func parseCallback(data string) (callbackData, error) {
	parts := strings.Split(data, ":")
	cd := callbackData{action: parts[0], tagIndex: -1}
	if len(parts) > 3 {
		return cd, fmt.Errorf("malformed callback data %q", data)
	}
	if len(parts) > 1 {
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return cd, fmt.Errorf("malformed submission id in %q: %w", data, err)
		}
		cd.submissionID = id
	}
	if len(parts) > 2 {
		idx, err := strconv.Atoi(parts[2])
		if err != nil {
			return cd, fmt.Errorf("malformed tag index in %q: %w", data, err)
		}
		cd.tagIndex = idx
	}
	return cd, nil
}

func submissionCallback(action string, id int64) string {
	return fmt.Sprintf("%s:%d", action, id)
}

// inputFromMessage classifies a private message for the intake machine.
// The largest photo size is kept.
func inputFromMessage(m *tgbotapi.Message) intake.Input {
	switch {
	case len(m.Photo) > 0:
		return intake.Input{Kind: intake.InputPhoto, FileID: m.Photo[len(m.Photo)-1].FileID}
	case m.Video != nil:
		return intake.Input{Kind: intake.InputVideo, FileID: m.Video.FileID}
	case strings.TrimSpace(m.Text) != "":
		return intake.Input{Kind: intake.InputText, Text: m.Text}
	default:
		return intake.Input{Kind: intake.InputOther}
	}
}
