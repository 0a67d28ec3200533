package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	path        string
	contentType string
	body        []byte
	form        map[string]string
	fileName    string
	fileContent []byte
}

func newTestClient(t *testing.T, status int, response string) (*Client, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.path = r.URL.Path
		rec.contentType = r.Header.Get("Content-Type")

		if err := r.ParseMultipartForm(1 << 20); err == nil {
			rec.form = map[string]string{}
			for k, v := range r.MultipartForm.Value {
				rec.form[k] = v[0]
			}
			if files := r.MultipartForm.File["document"]; len(files) > 0 {
				rec.fileName = files[0].Filename
				f, err := files[0].Open()
				require.NoError(t, err)
				rec.fileContent, _ = io.ReadAll(f)
				f.Close()
			}
		} else {
			rec.body, _ = io.ReadAll(r.Body)
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, "123:abc", srv.Client()), rec
}

func TestSendMessage(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"ok":true}`)

	err := c.SendMessage(context.Background(), 42, "hello")
	require.NoError(t, err)

	assert.Equal(t, "/bot123:abc/sendMessage", rec.path)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.body, &payload))
	assert.Equal(t, float64(42), payload["chat_id"])
	assert.Equal(t, "hello", payload["text"])
}

func TestSendKeyboard(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"ok":true}`)

	buttons := [][]Button{{{Text: "7天", CallbackData: "e_7"}}}
	err := c.SendKeyboard(context.Background(), 42, "📅 设置到期？", buttons)
	require.NoError(t, err)

	var payload struct {
		ReplyMarkup struct {
			InlineKeyboard [][]Button `json:"inline_keyboard"`
		} `json:"reply_markup"`
	}
	require.NoError(t, json.Unmarshal(rec.body, &payload))
	require.Len(t, payload.ReplyMarkup.InlineKeyboard, 1)
	assert.Equal(t, "e_7", payload.ReplyMarkup.InlineKeyboard[0][0].CallbackData)
}

func TestAnswerCallback(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"ok":true}`)

	require.NoError(t, c.AnswerCallback(context.Background(), "cb-1"))
	assert.Equal(t, "/bot123:abc/answerCallbackQuery", rec.path)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.body, &payload))
	assert.Equal(t, "cb-1", payload["callback_query_id"])
}

func TestSendDocument(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"ok":true}`)

	err := c.SendDocument(context.Background(), 42, "backup_2026-03-15.json", "💾 备份", []byte(`[{"id":1}]`))
	require.NoError(t, err)

	assert.Equal(t, "/bot123:abc/sendDocument", rec.path)
	assert.Equal(t, "42", rec.form["chat_id"])
	assert.Equal(t, "💾 备份", rec.form["caption"])
	assert.Equal(t, "backup_2026-03-15.json", rec.fileName)
	assert.Equal(t, `[{"id":1}]`, string(rec.fileContent))
}

func TestCall_APIError(t *testing.T) {
	c, _ := newTestClient(t, http.StatusBadRequest, `{"ok":false,"description":"Bad Request: chat not found"}`)

	err := c.SendMessage(context.Background(), 42, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSetWebhookAndCommands(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"ok":true}`)

	require.NoError(t, c.SetWebhook(context.Background(), "https://example.com/webhook"))
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.body, &payload))
	assert.Equal(t, "https://example.com/webhook", payload["url"])

	require.NoError(t, c.SetMyCommands(context.Background(), []BotCommand{{Command: "menu", Description: "📋 菜单"}}))
	assert.Equal(t, "/bot123:abc/setMyCommands", rec.path)
}
