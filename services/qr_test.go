package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTicketPayload_Deterministic(t *testing.T) {
	descriptor := TicketDescriptor{
		TicketID:   "1234567",
		EventName:  "Test Concert",
		HolderName: "Ada Lovelace",
		SeatCount:  2,
	}

	first := EncodeTicketPayload(descriptor)
	second := EncodeTicketPayload(descriptor)
	assert.Equal(t, first, second)

	assert.Contains(t, first, "Ticket ID: 1234567")
	assert.Contains(t, first, "Event: Test Concert")
	assert.Contains(t, first, "Holder: Ada Lovelace")
	assert.Contains(t, first, "Seats: 2")
}

func TestRenderTicketQR_ProducesPNG(t *testing.T) {
	png, err := RenderTicketQR(TicketDescriptor{
		TicketID:   "1234567",
		EventName:  "Test Concert",
		HolderName: "Ada Lovelace",
		SeatCount:  2,
	}, 0)
	require.NoError(t, err)
	require.NotEmpty(t, png)

	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
