// Package attributes reads container provisioning settings out of the
// free-form attribute bags attached to users, user groups and connections,
// and enforces the visibility rules that keep those settings invisible to
// callers who cannot administer the owning entity.
package attributes

import (
	"strconv"

	"sessiondock/internal/domain/model"
	"sessiondock/pkg/env"
	"sessiondock/pkg/log"
)

// Attribute names recognized on a decorated entity.
const (
	ImageAttribute    = "docker-image-name"
	PortAttribute     = "docker-image-port"
	ProtocolAttribute = "docker-image-protocol"
	CommandAttribute  = "docker-image-cmd"
	EnvAttribute      = "docker-image-env"
	UserAttribute     = "docker-image-user"
	PasswordAttribute = "docker-image-password"
	DomainAttribute   = "docker-image-domain"
)

// RecognizedAttributes lists every attribute this extension manages, in the
// order they are presented to administrative UIs.
var RecognizedAttributes = []string{
	ImageAttribute,
	PortAttribute,
	ProtocolAttribute,
	CommandAttribute,
	EnvAttribute,
	UserAttribute,
	PasswordAttribute,
	DomainAttribute,
}

// Extension extracts container specs from attribute bags. Connection-scoped
// bags inherit the protocol from the connection record itself, so only
// user- and group-scoped extensions require the protocol attribute.
type Extension struct {
	// RequireProtocol demands the protocol attribute for extraction to
	// succeed.
	RequireProtocol bool
}

// Extract produces a ContainerSpec from the bag if and only if the required
// attributes are present. Most entities carry no container association at
// all; that is reported as (nil, false), not as an error.
func (e Extension) Extract(bag map[string]string) (*model.ContainerSpec, bool) {
	image := bag[ImageAttribute]
	portValue := bag[PortAttribute]
	if image == "" || portValue == "" {
		return nil, false
	}

	protocolValue := bag[ProtocolAttribute]
	if e.RequireProtocol && protocolValue == "" {
		return nil, false
	}

	port, err := strconv.Atoi(portValue)
	if err != nil || port < 1 || port > 65535 {
		log.Warn("ignoring container attributes with invalid port", "port", portValue)
		return nil, false
	}

	spec := &model.ContainerSpec{
		Image:        image,
		InternalPort: port,
		Command:      bag[CommandAttribute],
	}

	if protocolValue != "" {
		protocol, err := model.ParseProtocol(protocolValue)
		if err != nil {
			log.Warn("ignoring container attributes with unknown protocol", "protocol", protocolValue)
			return nil, false
		}
		spec.Protocol = protocol
	}

	if envValue := bag[EnvAttribute]; envValue != "" {
		vars, err := env.Parse(envValue)
		if err != nil {
			log.Warn("ignoring malformed container environment attribute", "error", err)
		} else {
			spec.Env = vars
		}
	}

	if creds := extractCredentials(bag); creds != nil {
		spec.Credentials = creds
	}

	return spec, true
}

func extractCredentials(bag map[string]string) *model.Credentials {
	username := bag[UserAttribute]
	password := bag[PasswordAttribute]
	domain := bag[DomainAttribute]
	if username == "" && password == "" && domain == "" {
		return nil
	}
	return &model.Credentials{
		Username: username,
		Password: password,
		Domain:   domain,
	}
}

// FilterReadable applies the visibility rule to a bag being read. Callers
// with update rights see every recognized attribute, present or not, so
// administrative forms can offer the full set; callers without update rights
// see none of them. The input bag is never mutated.
func (e Extension) FilterReadable(bag map[string]string, canUpdate bool) map[string]string {
	filtered := make(map[string]string, len(bag)+len(RecognizedAttributes))
	for k, v := range bag {
		filtered[k] = v
	}

	for _, attr := range RecognizedAttributes {
		if canUpdate {
			if _, ok := filtered[attr]; !ok {
				filtered[attr] = ""
			}
		} else {
			delete(filtered, attr)
		}
	}
	return filtered
}

// FilterWritable applies the visibility rule to a bag being written. Without
// update rights the recognized attributes are silently stripped so that the
// rest of the write still goes through; erroring the whole write would let
// unprivileged callers probe for the attribute names.
func (e Extension) FilterWritable(bag map[string]string, canUpdate bool) map[string]string {
	filtered := make(map[string]string, len(bag))
	for k, v := range bag {
		filtered[k] = v
	}

	if !canUpdate {
		for _, attr := range RecognizedAttributes {
			delete(filtered, attr)
		}
	}
	return filtered
}
