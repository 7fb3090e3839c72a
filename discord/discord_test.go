package discord

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/ViBiOh/httputils/v4/pkg/request"
)

type sentMessage struct {
	path     string
	payload  InteractionDataResponse
	files    []string
	contents [][]byte
}

func newTestService(t *testing.T, handler OnMessage) (Service, ed25519.PrivateKey, <-chan sentMessage) {
	t.Helper()

	publicKey, privateKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}

	messages := make(chan sentMessage, 1)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		message := sentMessage{path: r.URL.Path}

		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || len(params["boundary"]) == 0 {
			_ = json.NewDecoder(r.Body).Decode(&message.payload)
			messages <- message
			return
		}

		reader := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := reader.NextPart()
			if err != nil {
				break
			}

			content, _ := io.ReadAll(part)

			if part.FormName() == "payload_json" {
				_ = json.Unmarshal(content, &message.payload)
				continue
			}

			message.files = append(message.files, part.FileName())
			message.contents = append(message.contents, content)
		}

		messages <- message
	}))
	t.Cleanup(api.Close)

	return Service{
		api:           request.New().URL(api.URL),
		applicationID: "app",
		publicKey:     publicKey,
		handler:       handler,
	}, privateKey, messages
}

func signedRequest(key ed25519.PrivateKey, method, target, body string) *http.Request {
	timestamp := "1700000000"

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("X-Signature-Timestamp", timestamp)
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(ed25519.Sign(key, []byte(timestamp+body))))

	return req
}

func TestHandler(t *testing.T) {
	service, key, _ := newTestService(t, func(_ context.Context, webhook InteractionRequest) (InteractionResponse, func(context.Context) InteractionResponse) {
		return NewEphemeral(false, "hello "+webhook.Option("name")), nil
	})

	_, otherKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]struct {
		request     *http.Request
		wantStatus  int
		wantType    InteractionCallbackType
		wantContent string
	}{
		"unsigned": {
			httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type": 1}`)),
			http.StatusUnauthorized,
			0,
			"",
		},
		"wrong key": {
			signedRequest(otherKey, http.MethodPost, "/", `{"type": 1}`),
			http.StatusUnauthorized,
			0,
			"",
		},
		"ping": {
			signedRequest(key, http.MethodPost, "/", `{"type": 1}`),
			http.StatusOK,
			pongCallback,
			"",
		},
		"command": {
			signedRequest(key, http.MethodPost, "/", `{"type": 2, "guild_id": "1", "data": {"name": "greet", "options": [{"name": "name", "value": "bob"}]}}`),
			http.StatusOK,
			ChannelMessageWithSource,
			"hello bob",
		},
		"invalid payload": {
			signedRequest(key, http.MethodPost, "/", `{"type":`),
			http.StatusBadRequest,
			0,
			"",
		},
		"unknown path": {
			signedRequest(key, http.MethodGet, "/unknown", ""),
			http.StatusNotFound,
			0,
			"",
		},
	}

	for intention, testCase := range cases {
		t.Run(intention, func(t *testing.T) {
			writer := httptest.NewRecorder()
			service.Handler().ServeHTTP(writer, testCase.request)

			if got := writer.Code; got != testCase.wantStatus {
				t.Fatalf("Handler() status = %d, want %d", got, testCase.wantStatus)
			}

			if testCase.wantStatus != http.StatusOK {
				return
			}

			var response InteractionResponse
			if err := json.Unmarshal(writer.Body.Bytes(), &response); err != nil {
				t.Fatalf("unmarshal response: %s", err)
			}

			if response.Type != testCase.wantType || response.Data.Content != testCase.wantContent {
				t.Errorf("Handler() = %+v, want type %d and content `%s`", response, testCase.wantType, testCase.wantContent)
			}
		})
	}
}

func TestHandlerAsyncAttachment(t *testing.T) {
	png := []byte("\x89PNG fake")

	service, key, messages := newTestService(t, func(_ context.Context, _ InteractionRequest) (InteractionResponse, func(context.Context) InteractionResponse) {
		return AsyncResponse(false, false), func(_ context.Context) InteractionResponse {
			return NewResponse(ChannelMessageWithSource, "overview").
				AddAttachment("EUW1_1.png", png).
				AddComponent(NewActionRow(NewButton(SecondaryButton, "Refresh", "overview:2")))
		}
	})

	writer := httptest.NewRecorder()
	service.Handler().ServeHTTP(writer, signedRequest(key, http.MethodPost, "/", `{"type": 2, "token": "tok", "guild_id": "1", "data": {"name": "overview"}}`))

	if writer.Code != http.StatusOK {
		t.Fatalf("Handler() status = %d", writer.Code)
	}

	var message sentMessage

	select {
	case message = <-messages:
	case <-time.After(5 * time.Second):
		t.Fatal("no follow-up message sent")
	}

	if message.path != "/webhooks/app/tok/messages/@original" {
		t.Errorf("follow-up path = `%s`", message.path)
	}

	if message.payload.Content != "overview" || len(message.payload.Components) != 1 {
		t.Errorf("follow-up payload = %+v", message.payload)
	}

	if !slices.Equal(message.files, []string{"EUW1_1.png"}) || len(message.contents) != 1 || !bytes.Equal(message.contents[0], png) {
		t.Errorf("follow-up files = %v", message.files)
	}
}

func TestNew(t *testing.T) {
	publicKey, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]struct {
		key     string
		wantErr bool
	}{
		"missing": {
			"",
			true,
		},
		"not hex": {
			"zz",
			true,
		},
		"too short": {
			"abcd",
			true,
		},
		"valid": {
			hex.EncodeToString(publicKey),
			false,
		},
	}

	for intention, testCase := range cases {
		t.Run(intention, func(t *testing.T) {
			empty := ""

			_, err := New(&Config{
				applicationID: &empty,
				publicKey:     &testCase.key,
				clientID:      &empty,
				clientSecret:  &empty,
				botToken:      &empty,
				website:       &empty,
			}, nil, nil)

			if gotErr := err != nil; gotErr != testCase.wantErr {
				t.Errorf("New() error = %v, want error %t", err, testCase.wantErr)
			}
		})
	}
}

func TestGetRegisterURLs(t *testing.T) {
	cases := map[string]struct {
		command Command
		want    []string
	}{
		"global": {
			Command{Name: "overview"},
			[]string{"/commands"},
		},
		"guilds": {
			Command{Name: "overview", Guilds: []string{"1", "2"}},
			[]string{"/guilds/1/commands", "/guilds/2/commands"},
		},
	}

	for intention, testCase := range cases {
		t.Run(intention, func(t *testing.T) {
			if got := getRegisterURLs(testCase.command); !slices.Equal(got, testCase.want) {
				t.Errorf("getRegisterURLs() = %v, want %v", got, testCase.want)
			}
		})
	}
}

func TestBotRequestWithoutToken(t *testing.T) {
	service, _, _ := newTestService(t, nil)

	if _, err := service.User(context.Background(), "1"); err != ErrNoBotToken {
		t.Errorf("User() error = %v, want %s", err, ErrNoBotToken)
	}
}

func TestOauthWithoutCode(t *testing.T) {
	service, _, _ := newTestService(t, nil)

	writer := httptest.NewRecorder()
	service.Handler().ServeHTTP(writer, httptest.NewRequest(http.MethodGet, "/oauth", nil))

	if writer.Code != http.StatusBadRequest {
		t.Errorf("oauth status = %d, want %d", writer.Code, http.StatusBadRequest)
	}
}
