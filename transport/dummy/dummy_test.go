package dummy

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halcyon-http/httpflow/transport"
)

func TestTransport_ReadLine(t *testing.T) {
	tr := New([]byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n"))

	line, err := tr.ReadLine(256)
	require.NoError(t, err)
	require.Equal(t, "GET / HTTP/1.1", string(line))

	line, err = tr.ReadLine(256)
	require.NoError(t, err)
	require.Equal(t, "Host: example.com", string(line))

	line, err = tr.ReadLine(256)
	require.NoError(t, err)
	require.Equal(t, "", string(line))
}

func TestTransport_ReadLine_TooLongWithDelimiterInOneChunk(t *testing.T) {
	tr := New([]byte("this line is way too long for the cap\r\n"))

	_, err := tr.ReadLine(8)
	require.True(t, errors.Is(err, transport.ErrLineTooLong))
}

func TestTransport_ReadLine_TooLongWithoutDelimiter(t *testing.T) {
	tr := New([]byte("no delimiter yet and its already long"))

	_, err := tr.ReadLine(8)
	require.True(t, errors.Is(err, transport.ErrLineTooLong))
}

func TestTransport_ReadLine_EOFWhenExhausted(t *testing.T) {
	tr := New(nil)

	_, err := tr.ReadLine(256)
	require.True(t, errors.Is(err, io.EOF))
}

func TestTransport_ReadFull(t *testing.T) {
	tr := New([]byte("hello world"))

	body, err := tr.ReadFull(5)
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))
}

func TestTransport_ReadFull_NotEnoughDataIsEOF(t *testing.T) {
	tr := New([]byte("hi"))

	_, err := tr.ReadFull(10)
	require.True(t, errors.Is(err, io.EOF))
}

func TestTransport_WriteJournalsBytes(t *testing.T) {
	tr := New(nil)
	require.NoError(t, tr.Write([]byte("hello")))
	require.NoError(t, tr.Write([]byte(" world")))
	require.Equal(t, "hello world", string(tr.Written()))
}

func TestTransport_Feed(t *testing.T) {
	tr := New([]byte("GET"))
	tr.Feed([]byte(" / HTTP/1.1\r\n"))

	line, err := tr.ReadLine(256)
	require.NoError(t, err)
	require.Equal(t, "GET / HTTP/1.1", string(line))
}

func TestTransport_ShutdownAndCloseCountEveryCall(t *testing.T) {
	tr := New(nil)
	require.True(t, tr.SupportsShutdown())

	require.NoError(t, tr.Shutdown())
	require.NoError(t, tr.Shutdown())
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())

	require.Equal(t, 2, tr.ShutdownCount())
	require.Equal(t, 2, tr.CloseCount())
}

func TestTransport_WithoutShutdown(t *testing.T) {
	tr := New(nil).WithoutShutdown()
	require.False(t, tr.SupportsShutdown())
}
