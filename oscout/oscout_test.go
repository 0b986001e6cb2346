package oscout

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchcast/pitch"
)

// header is "/pc" and ",b", each null padded to 4 bytes
var header = []byte{'/', 'p', 'c', 0, ',', 'b', 0, 0}

// blobOf checks the frame layout and returns the blob payload
func blobOf(t *testing.T, frame []byte) []byte {
	t.Helper()
	require.GreaterOrEqual(t, len(frame), len(header)+4)
	require.Equal(t, header, frame[:len(header)])
	require.Zero(t, len(frame)%4, "frame not 32-bit aligned")

	n := int(binary.BigEndian.Uint32(frame[len(header):]))
	start := len(header) + 4
	require.LessOrEqual(t, start+n, len(frame))
	for _, pad := range frame[start+n:] {
		require.Zero(t, pad)
	}
	return frame[start : start+n]
}

func TestEncodeEmpty(t *testing.T) {
	enc, err := NewEncoder(DefaultAddress)
	require.NoError(t, err)

	frame, err := enc.Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, blobOf(t, frame))

	frame, err = enc.Encode([]pitch.Class{})
	require.NoError(t, err)
	assert.Empty(t, blobOf(t, frame))
}

func TestEncodeTriad(t *testing.T) {
	enc, err := NewEncoder("")
	require.NoError(t, err)
	assert.Equal(t, "/pc", enc.Address())

	frame, err := enc.Encode([]pitch.Class{0, 4, 7})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x04, 0x07}, blobOf(t, frame))
}

func TestEncodeKeepsOrderAndDuplicates(t *testing.T) {
	enc, _ := NewEncoder("/pc")
	frame, err := enc.Encode([]pitch.Class{11, 2, 2, 9, 0})
	require.NoError(t, err)
	assert.Equal(t, []byte{11, 2, 2, 9, 0}, blobOf(t, frame))
}

func TestEncodeRejectsInvalidClass(t *testing.T) {
	enc, _ := NewEncoder("/pc")
	_, err := enc.Encode([]pitch.Class{3, 12})
	require.Error(t, err)

	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, 1, encErr.Index)
	assert.Equal(t, pitch.Class(12), encErr.Class)
}

func TestNewEncoderValidatesAddress(t *testing.T) {
	for _, bad := range []string{"pc", "/p c", "/pc#", "/a,b"} {
		_, err := NewEncoder(bad)
		assert.Error(t, err, bad)
	}
	enc, err := NewEncoder("/chord/pcs")
	require.NoError(t, err)
	assert.Equal(t, "/chord/pcs", enc.Address())
}

func TestDecodeRoundTrip(t *testing.T) {
	enc, _ := NewEncoder("/pc")
	frame, err := enc.Encode([]pitch.Class{0, 4, 7, 10})
	require.NoError(t, err)

	held, err := enc.Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, []pitch.Class{0, 4, 7, 10}, held)

	other, _ := NewEncoder("/other")
	_, err = other.Decode(frame)
	assert.Error(t, err)
}

func TestDecodeEmptyFrame(t *testing.T) {
	enc, _ := NewEncoder("/pc")
	frame, err := enc.Encode(nil)
	require.NoError(t, err)

	held, err := enc.Decode(frame)
	require.NoError(t, err)
	assert.NotNil(t, held)
	assert.Empty(t, held)

	// same layout under another address is not ours
	other, _ := NewEncoder("/chord")
	_, err = other.Decode(frame)
	assert.Error(t, err)

	// zero length word followed by stray data is not an empty frame
	bad := append(append([]byte(nil), header...), 0, 0, 0, 0, 0, 0, 0, 7)
	assert.False(t, enc.isEmptyFrame(bad))
}

func TestDecodeEmptyFrameLongAddress(t *testing.T) {
	enc, _ := NewEncoder("/chord/pcs")
	frame, err := enc.Encode([]pitch.Class{})
	require.NoError(t, err)

	held, err := enc.Decode(frame)
	require.NoError(t, err)
	assert.Empty(t, held)
}

func listenLocal(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestTransmitterSendsDatagrams(t *testing.T) {
	rx := listenLocal(t)

	tx, err := Listen("127.0.0.1:0", rx.LocalAddr().String())
	require.NoError(t, err)
	defer tx.Close()
	assert.NotZero(t, tx.LocalAddr().Port)

	enc, _ := NewEncoder("/pc")
	frame, err := enc.Encode([]pitch.Class{0, 4, 7})
	require.NoError(t, err)
	require.NoError(t, tx.Send(frame))

	buf := make([]byte, 1024)
	require.NoError(t, rx.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, from, err := rx.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Equal(t, frame, buf[:n])
	assert.Equal(t, tx.LocalAddr().Port, from.Port)

	sent, failed := tx.Counts()
	assert.Equal(t, uint64(1), sent)
	assert.Equal(t, uint64(0), failed)
}

func TestTransmitterBindConflict(t *testing.T) {
	taken := listenLocal(t)
	_, err := Listen(taken.LocalAddr().String(), "127.0.0.1:57001")
	assert.Error(t, err)
}

func TestTransmitterBadAddresses(t *testing.T) {
	_, err := Listen("not an address", "127.0.0.1:57001")
	assert.Error(t, err)
	_, err = Listen("127.0.0.1:0", "127.0.0.1:notaport")
	assert.Error(t, err)
}

func TestTransmitterSendAfterCloseFails(t *testing.T) {
	tx, err := Listen("127.0.0.1:0", "127.0.0.1:57001")
	require.NoError(t, err)
	require.NoError(t, tx.Close())

	assert.Error(t, tx.Send([]byte{1, 2, 3, 4}))
	_, failed := tx.Counts()
	assert.Equal(t, uint64(1), failed)
}
