package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halcyon-http/httpflow/headers"
	"github.com/halcyon-http/httpflow/negotiate"
	"github.com/halcyon-http/httpflow/status"
)

func TestParseRequestLine(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		line, ok := ParseRequestLine("GET /index.html HTTP/1.1")
		require.True(t, ok)
		require.Equal(t, "GET", line.Method)
		require.Equal(t, "/index.html", line.Resource)
		require.Equal(t, uint8(1), line.Version.Major)
		require.Equal(t, uint8(1), line.Version.Minor)
	})

	t.Run("MissingVersion", func(t *testing.T) {
		_, ok := ParseRequestLine("GET /index.html")
		require.False(t, ok)
	})

	t.Run("Empty", func(t *testing.T) {
		_, ok := ParseRequestLine("")
		require.False(t, ok)
	})
}

func TestParseStatusLine(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		line, ok := ParseStatusLine("HTTP/1.1 200 OK")
		require.True(t, ok)
		require.Equal(t, 200, line.Code)
		require.Equal(t, "OK", line.Reason)
	})

	t.Run("NoReason", func(t *testing.T) {
		line, ok := ParseStatusLine("HTTP/1.1 204")
		require.True(t, ok)
		require.Equal(t, 204, line.Code)
		require.Equal(t, "", line.Reason)
	})

	t.Run("NonNumericCode", func(t *testing.T) {
		_, ok := ParseStatusLine("HTTP/1.1 OK OK")
		require.False(t, ok)
	})
}

func TestData_SetContentLength(t *testing.T) {
	d := New(100)

	require.True(t, d.SetContentLength(100))
	require.Equal(t, uint64(100), d.ContentLength())

	d2 := New(100)
	require.False(t, d2.SetContentLength(101))
}

func TestData_Buffer(t *testing.T) {
	t.Run("RequestReturnsWholePending", func(t *testing.T) {
		d := New(0)
		d.SetPending([]byte("GET / HTTP/1.1"))
		require.Equal(t, []byte("GET / HTTP/1.1"), d.Buffer())
	})

	t.Run("ContentTruncatesToRemaining", func(t *testing.T) {
		d := New(100)
		d.SetStatus(Content)
		d.SetContentLength(4)
		d.SetPending([]byte("hello"))
		require.Equal(t, []byte("hell"), d.Buffer())
	})
}

func TestData_GenerateReply(t *testing.T) {
	t.Run("InformationalHasNoBodyOrLength", func(t *testing.T) {
		d := New(0)
		out := d.GenerateReply(status.Continue, []byte("ignored"), nil)
		require.Contains(t, string(out), "HTTP/1.1 100 Continue\r\n")
		require.NotContains(t, string(out), "Content-Length")
		require.NotContains(t, string(out), "ignored")
	})

	t.Run("HEADOmitsBodyButKeepsLength", func(t *testing.T) {
		d := New(0)
		d.SetInboundRequest(RequestLine{Method: "HEAD", Resource: "/"})
		out := d.GenerateReply(status.OK, []byte("hello"), nil)
		s := string(out)
		require.Contains(t, s, "Content-Length: 5")
		require.NotContains(t, s, "hello")
	})

	t.Run("ErrorStatusClosesConnection", func(t *testing.T) {
		d := New(0)
		out := d.GenerateReply(status.BadRequest, nil, nil)
		require.Contains(t, string(out), "Connection: close")
	})

	t.Run("ExtraHeaderWinsOverOutboundDuplicate", func(t *testing.T) {
		d := New(0)
		d.Outbound().Add("Allow", "GET")
		out := d.GenerateReply(status.MethodNotAllowed, nil, headers.New().Add("Allow", "GET, POST"))
		require.Contains(t, string(out), "Allow: GET, POST")
		require.NotContains(t, string(out), "Allow: GET\r\n")
	})
}

func TestData_Reply_LatchesCloseAfterSendOnError(t *testing.T) {
	d := New(0)
	d.Reply(status.OK, nil, nil)
	require.False(t, d.CloseAfterSend())

	d.Reply(status.BadRequest, nil, nil)
	require.True(t, d.CloseAfterSend())
}

func TestData_RecycleSequence(t *testing.T) {
	d := New(0)
	d.Inbound().Add("Host", "example.com")
	d.Reply(status.OK, []byte("hi"), nil)
	d.SetWritePending(true)

	d.BeginRecycle()
	require.Equal(t, Shutdown, d.Status())
	require.False(t, d.WritePending())
	require.Equal(t, 0, d.OutboundLen())
	require.False(t, d.Free())

	d.FinishRecycle()
	require.True(t, d.Free())
	require.Empty(t, d.Content())
	require.False(t, d.Inbound().Has("Host"))
}

func TestData_Negotiate(t *testing.T) {
	t.Run("PicksAndSetsOutboundHeader", func(t *testing.T) {
		d := New(0)
		d.Inbound().Add("Accept", "text/html")

		ok := d.Negotiate(map[string]negotiate.Spec{
			"Accept": {
				Candidates:     []string{"application/json", "text/html"},
				OutboundHeader: "Content-Type",
			},
		})

		require.True(t, ok)
		require.Equal(t, "text/html", d.Negotiated().Value("Accept"))
		require.Equal(t, "text/html", d.Outbound().Value("Content-Type"))
		require.Contains(t, d.Outbound().Values("Vary"), "Accept")
	})

	t.Run("NoOverlapFails", func(t *testing.T) {
		d := New(0)
		d.Inbound().Add("Accept", "application/xml")

		ok := d.Negotiate(map[string]negotiate.Spec{
			"Accept": {Candidates: []string{"application/json"}},
		})

		require.False(t, ok)
	})
}

func TestTrigger405(t *testing.T) {
	require.True(t, Trigger405([]string{"GET", "POST"}))
	require.False(t, Trigger405([]string{"OPTIONS"}))
	require.False(t, Trigger405(nil))
}

func TestData_Reuse_PreservesCounters(t *testing.T) {
	d := New(0)
	d.Reply(status.OK, nil, nil)
	d.Request("GET", "/", nil, nil)

	d.BeginRecycle()
	d.FinishRecycle()
	d.Reuse(true)

	require.Equal(t, uint64(1), d.Requests())
	require.Equal(t, uint64(1), d.Replies())
	require.Equal(t, Request, d.Status())
	require.False(t, d.Free())
}
