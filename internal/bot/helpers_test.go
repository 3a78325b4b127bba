package bot

import (
	"testing"

	"bazar-bot/internal/intake"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data    string
		want    callbackData
		wantErr bool
	}{
		{data: "intake_submit", want: callbackData{action: "intake_submit", tagIndex: -1}},
		{data: "mod_approve:12", want: callbackData{action: "mod_approve", submissionID: 12, tagIndex: -1}},
		{data: "mod_tag:12:3", want: callbackData{action: "mod_tag", submissionID: 12, tagIndex: 3}},
		{data: "mod_tag:12:x", wantErr: true},
		{data: "mod_approve:abc", wantErr: true},
		{data: "mod_tag:1:2:3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, err := parseCallback(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "@anna", displayName(&tgbotapi.User{ID: 1, UserName: "anna", FirstName: "Anna"}))
	assert.Equal(t, "Ivan Petrenko", displayName(&tgbotapi.User{ID: 2, FirstName: "Ivan", LastName: "Petrenko"}))
	assert.Equal(t, "3", displayName(&tgbotapi.User{ID: 3}))
	assert.Empty(t, displayName(nil))
}

func TestInputFromMessage(t *testing.T) {
	photo := inputFromMessage(&tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}, Caption: "front"})
	assert.Equal(t, intake.Input{Kind: intake.InputPhoto, FileID: "large"}, photo)

	video := inputFromMessage(&tgbotapi.Message{Video: &tgbotapi.Video{FileID: "v1"}})
	assert.Equal(t, intake.Input{Kind: intake.InputVideo, FileID: "v1"}, video)

	text := inputFromMessage(&tgbotapi.Message{Text: "  BMW X5 2018 "})
	assert.Equal(t, intake.Input{Kind: intake.InputText, Text: "  BMW X5 2018 "}, text)

	assert.Equal(t, intake.InputOther, inputFromMessage(&tgbotapi.Message{Text: "   "}).Kind)
	assert.Equal(t, intake.InputOther, inputFromMessage(&tgbotapi.Message{Sticker: &tgbotapi.Sticker{FileID: "s"}}).Kind)
}
