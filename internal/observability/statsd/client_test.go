package statsd

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualify(t *testing.T) {
	t.Parallel()

	c := &Client{prefix: "portal-api"}
	assert.Equal(t, "portal-api.maintenance.task_run", c.qualify(" maintenance.task_run "))
	assert.Equal(t, "portal-api.http_request", c.qualify("http/request"))
	assert.Equal(t, "portal-api.a.b", c.qualify("a..b"))
	assert.Equal(t, "", c.qualify("   "))

	bare := &Client{}
	assert.Equal(t, "task_run", bare.qualify("task_run"))
}

func TestTagSuffixMergesAndSorts(t *testing.T) {
	t.Parallel()

	global := map[string]string{"env": "prod", "service": "portal"}
	local := map[string]string{
		"result": " success ",
		"":       "dropped",
		"env":    "stage",
	}

	got := tagSuffix(global, local)
	assert.Equal(t, "|#env:stage,result:success,service:portal", got)

	assert.Empty(t, tagSuffix(nil, nil))
}

func TestCleanTagsCopies(t *testing.T) {
	t.Parallel()

	original := map[string]string{"env": "prod", "": "dropped"}
	cleaned := cleanTags(original)
	require.NotNil(t, cleaned)

	cleaned["env"] = "stage"
	assert.Equal(t, "prod", original["env"])
	assert.NotContains(t, cleaned, "")
}

func TestClientEnabledAndClose(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	client := &Client{enabled: true, conn: clientConn}
	require.True(t, client.Enabled())

	require.NoError(t, client.Close())
	assert.False(t, client.Enabled())

	// Close is idempotent.
	require.NoError(t, client.Close())

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	assert.NoError(t, nilClient.Close())
}

func TestNilClientDropsMetrics(t *testing.T) {
	t.Parallel()

	var nilClient *Client
	nilClient.Count("x", 1, nil)
	nilClient.Gauge("x", 1, nil)
	nilClient.Timing("x", 0, nil)
}

func TestNewClientDisabledWithoutAddress(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: true, Address: "   "})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statsd dial")
}
