package bot_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdbp/nguidle/pkg/bot"
)

type testPlugin struct {
	closed bool
}

func (p *testPlugin) Name() string { return "test" }

func (p *testPlugin) Load(ctx context.Context) []bot.Option {
	return []bot.Option{
		bot.WithWebhook(p.Name(), func(router *gin.RouterGroup, s *discordgo.Session) {
			router.GET("/ping", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"pong": true})
			})
		}),
	}
}

func (p *testPlugin) Close(ctx context.Context) error {
	p.closed = true
	return nil
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := bot.New("")
	require.Error(t, err)
}

func TestLoadPlugins_RegistersWebhooks(t *testing.T) {
	gin.SetMode(gin.TestMode)

	b, err := bot.New("test-token", bot.WithWebhookAddr("127.0.0.1:0"))
	require.NoError(t, err)

	p := &testPlugin{}
	b.LoadPlugins(context.Background(), []bot.Plugin{p})

	w := httptest.NewRecorder()
	b.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/webhook/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pong": true}`, w.Body.String())

	w = httptest.NewRecorder()
	b.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/webhook/other/ping", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, b.Close(context.Background()))
	assert.True(t, p.closed)
}
