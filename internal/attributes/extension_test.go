package attributes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sessiondock/internal/domain/model"
)

func containerBag() map[string]string {
	return map[string]string{
		ImageAttribute:    "vnc-box",
		PortAttribute:     "5901",
		ProtocolAttribute: "vnc",
		CommandAttribute:  "/usr/bin/vncserver",
		EnvAttribute:      `DISPLAY=":1" LANG=en_US.UTF-8`,
		UserAttribute:     "alice",
		PasswordAttribute: "secret",
		"guac-full-name":  "Alice",
	}
}

func TestExtractCompleteBag(t *testing.T) {
	spec, ok := Extension{RequireProtocol: true}.Extract(containerBag())
	require.True(t, ok)

	assert.Equal(t, "vnc-box", spec.Image)
	assert.Equal(t, 5901, spec.InternalPort)
	assert.Equal(t, model.ProtocolVNC, spec.Protocol)
	assert.Equal(t, "/usr/bin/vncserver", spec.Command)
	assert.Equal(t, []string{"DISPLAY=:1", "LANG=en_US.UTF-8"}, spec.Env)
	require.NotNil(t, spec.Credentials)
	assert.Equal(t, "alice", spec.Credentials.Username)
	assert.Equal(t, "secret", spec.Credentials.Password)
}

func TestExtractReportsNoAssociation(t *testing.T) {
	tests := []struct {
		name string
		bag  map[string]string
	}{
		{"empty bag", map[string]string{}},
		{"unrelated attributes only", map[string]string{"guac-full-name": "Alice"}},
		{"image without port", map[string]string{ImageAttribute: "vnc-box"}},
		{"port without image", map[string]string{PortAttribute: "5901"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec, ok := Extension{}.Extract(tc.bag)
			assert.False(t, ok)
			assert.Nil(t, spec)
		})
	}
}

func TestExtractRejectsInvalidValues(t *testing.T) {
	bag := containerBag()
	bag[PortAttribute] = "not-a-port"
	_, ok := Extension{}.Extract(bag)
	assert.False(t, ok)

	bag = containerBag()
	bag[PortAttribute] = "70000"
	_, ok = Extension{}.Extract(bag)
	assert.False(t, ok)

	bag = containerBag()
	bag[ProtocolAttribute] = "gopher"
	_, ok = Extension{}.Extract(bag)
	assert.False(t, ok)
}

func TestExtractProtocolRequirement(t *testing.T) {
	bag := map[string]string{
		ImageAttribute: "vnc-box",
		PortAttribute:  "5901",
	}

	// Connection-scoped extraction inherits the protocol elsewhere.
	_, ok := Extension{}.Extract(bag)
	assert.True(t, ok)

	// User- and group-scoped extraction demands it.
	_, ok = Extension{RequireProtocol: true}.Extract(bag)
	assert.False(t, ok)
}

func TestFilterReadableHidesAttributesWithoutUpdateRights(t *testing.T) {
	ext := Extension{}
	filtered := ext.FilterReadable(containerBag(), false)

	for _, attr := range RecognizedAttributes {
		_, present := filtered[attr]
		assert.False(t, present, "attribute %s should be hidden", attr)
	}
	assert.Equal(t, "Alice", filtered["guac-full-name"])
}

func TestFilterReadableExposesFullSetWithUpdateRights(t *testing.T) {
	ext := Extension{}
	filtered := ext.FilterReadable(map[string]string{ImageAttribute: "vnc-box"}, true)

	for _, attr := range RecognizedAttributes {
		_, present := filtered[attr]
		assert.True(t, present, "attribute %s should be offered", attr)
	}
	assert.Equal(t, "vnc-box", filtered[ImageAttribute])
}

func TestFilterWritableStripsSilently(t *testing.T) {
	ext := Extension{}
	write := map[string]string{
		ImageAttribute:   "evil-box",
		"guac-full-name": "Mallory",
	}

	filtered := ext.FilterWritable(write, false)
	_, present := filtered[ImageAttribute]
	assert.False(t, present)
	// Non-container attributes survive the write.
	assert.Equal(t, "Mallory", filtered["guac-full-name"])

	// The caller's map is untouched.
	assert.Equal(t, "evil-box", write[ImageAttribute])
}

func TestFilterWritablePassesThroughWithUpdateRights(t *testing.T) {
	ext := Extension{}
	filtered := ext.FilterWritable(map[string]string{ImageAttribute: "vnc-box"}, true)
	assert.Equal(t, "vnc-box", filtered[ImageAttribute])
}
