package gnssgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FrameArchive_nilSafe(t *testing.T) {
	assert := assert.New(t)
	var a *FrameArchive
	assert.NotPanics(func() {
		a.StoreFrame(SigL1CA, 1, &DecodedFrame{Payload: []byte{1, 2, 3}})
	})
}

func Test_FrameArchive_storeFrameIgnoresNilFrame(t *testing.T) {
	assert := assert.New(t)
	a := &FrameArchive{}
	assert.NotPanics(func() {
		a.StoreFrame(SigL1CA, 1, nil)
	})
}
