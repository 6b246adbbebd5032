package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/go-connections/nat"

	"sessiondock/internal/application/config"
	"sessiondock/internal/domain/model"
	"sessiondock/internal/domain/repository"
	"sessiondock/pkg/log"
)

// engineRepository implements repository.ContainerEngineRepository against a
// Docker-compatible daemon using the official SDK.
type engineRepository struct {
	client          *client.Client
	hostname        string
	requestTimeout  time.Duration
	publishAllPorts bool
	registryAuth    string
}

// Compile-time assertion that *engineRepository implements the interface.
var _ repository.ContainerEngineRepository = (*engineRepository)(nil)

// NewEngineRepository builds a Docker client from the agent configuration and
// resolves the engine hostname once. An unresolvable host is a fatal
// configuration error, not retried per-request.
func NewEngineRepository(cfg *config.Config) (repository.ContainerEngineRepository, error) {
	opts := []client.Opt{client.WithHost(cfg.EngineHost)}
	if cfg.APIVersion != "" {
		opts = append(opts, client.WithVersion(cfg.APIVersion))
	} else {
		opts = append(opts, client.WithAPIVersionNegotiation())
	}
	if cfg.TLSVerify && cfg.CertPath != "" {
		opts = append(opts, client.WithTLSClientConfig(
			filepath.Join(cfg.CertPath, "ca.pem"),
			filepath.Join(cfg.CertPath, "cert.pem"),
			filepath.Join(cfg.CertPath, "key.pem"),
		))
	}

	dockerClient, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine client: %w", err)
	}

	hostname, err := resolveEngineHostname(cfg.EngineHost)
	if err != nil {
		return nil, err
	}

	registryAuth, err := encodeRegistryAuth(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.PublishAllPorts {
		log.Warn("publish_all_ports is enabled: every exposed container port will be reachable from the host")
	}

	log.Info("engine client initialized", "engine_host", cfg.EngineHost, "hostname", hostname)
	return &engineRepository{
		client:          dockerClient,
		hostname:        hostname,
		requestTimeout:  cfg.RequestTimeout,
		publishAllPorts: cfg.PublishAllPorts,
		registryAuth:    registryAuth,
	}, nil
}

// resolveEngineHostname extracts the host from the engine URI and verifies it
// resolves. Socket-style endpoints publish ports on the local host.
func resolveEngineHostname(engineHost string) (string, error) {
	u, err := url.Parse(engineHost)
	if err != nil {
		return "", fmt.Errorf("%w: invalid engine host %q: %v", repository.ErrHostUnresolvable, engineHost, err)
	}

	switch u.Scheme {
	case "unix", "npipe", "":
		return "localhost", nil
	}

	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("%w: engine host %q has no hostname", repository.ErrHostUnresolvable, engineHost)
	}
	if _, err := net.LookupHost(host); err != nil {
		return "", fmt.Errorf("%w: %q: %v", repository.ErrHostUnresolvable, host, err)
	}
	return host, nil
}

// encodeRegistryAuth builds the opaque auth header for image pulls, or ""
// when no registry credentials are configured.
func encodeRegistryAuth(cfg *config.Config) (string, error) {
	if cfg.RegistryUser == "" {
		return "", nil
	}
	auth, err := registry.EncodeAuthConfig(registry.AuthConfig{
		Username:      cfg.RegistryUser,
		Password:      cfg.RegistryPassword,
		Email:         cfg.RegistryEmail,
		ServerAddress: cfg.RegistryURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode registry auth: %w", err)
	}
	return auth, nil
}

func (r *engineRepository) Exists(ctx context.Context, identity model.Identity) (bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	_, err := r.client.ContainerInspect(ctx, identity.String())
	if err != nil {
		if errdefs.IsNotFound(err) {
			return false, nil
		}
		return false, r.classify("inspect container", err)
	}
	return true, nil
}

func (r *engineRepository) Create(ctx context.Context, identity model.Identity, spec model.ContainerSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", repository.ErrInvalidSpec, err)
	}

	log.Debug("creating container", "identity", identity, "image", spec.Image, "internal_port", spec.InternalPort)

	if r.registryAuth != "" {
		if err := r.pullImage(ctx, spec.Image); err != nil {
			// The image may already be present locally; create decides.
			log.Warn("image pull failed, attempting create with local image", "image", spec.Image, "error", err)
		}
	}

	internalPort, err := nat.NewPort("tcp", strconv.Itoa(spec.InternalPort))
	if err != nil {
		return "", fmt.Errorf("%w: %v", repository.ErrInvalidSpec, err)
	}

	containerCfg := &container.Config{
		Image:        spec.Image,
		Env:          spec.Env,
		ExposedPorts: nat.PortSet{internalPort: struct{}{}},
	}
	if spec.Command != "" {
		containerCfg.Cmd = strslice.StrSlice(strings.Fields(spec.Command))
	}

	// Empty HostPort lets the engine choose an ephemeral host port.
	hostCfg := &container.HostConfig{
		PortBindings:    nat.PortMap{internalPort: []nat.PortBinding{{HostPort: ""}}},
		PublishAllPorts: r.publishAllPorts,
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	resp, err := r.client.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, identity.String())
	if err != nil {
		if errdefs.IsConflict(err) {
			return "", fmt.Errorf("%w: %s", repository.ErrAlreadyExists, identity)
		}
		return "", r.classify("create container", err)
	}

	log.Info("container created", "identity", identity, "container_id", resp.ID)
	return resp.ID, nil
}

func (r *engineRepository) Start(ctx context.Context, containerID string) error {
	log.Debug("starting container", "container_id", containerID)

	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.client.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		if errdefs.IsNotFound(err) {
			return fmt.Errorf("%w: %s", repository.ErrNotFound, containerID)
		}
		return r.classify("start container", err)
	}
	return nil
}

func (r *engineRepository) InspectState(ctx context.Context, identity model.Identity) (model.RuntimeState, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	inspect, err := r.client.ContainerInspect(ctx, identity.String())
	if err != nil {
		if errdefs.IsNotFound(err) {
			return model.StateAbsent, nil
		}
		return model.StateUnknown, r.classify("inspect container", err)
	}

	if inspect.State != nil && inspect.State.Running {
		return model.StateRunning, nil
	}
	return model.StateCreated, nil
}

func (r *engineRepository) InspectEndpoint(ctx context.Context, identity model.Identity, internalPort int) (model.ResolvedEndpoint, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	inspect, err := r.client.ContainerInspect(ctx, identity.String())
	if err != nil {
		if errdefs.IsNotFound(err) {
			return model.ResolvedEndpoint{}, fmt.Errorf("%w: %s", repository.ErrNotFound, identity)
		}
		return model.ResolvedEndpoint{}, r.classify("inspect container", err)
	}

	if inspect.State == nil || !inspect.State.Running {
		return model.ResolvedEndpoint{}, fmt.Errorf("%w: %s", repository.ErrNotRunning, identity)
	}

	var ports nat.PortMap
	if inspect.NetworkSettings != nil {
		ports = inspect.NetworkSettings.Ports
	}

	hostPort, err := PublishedHostPort(ports, internalPort)
	if err != nil {
		return model.ResolvedEndpoint{}, err
	}

	return model.ResolvedEndpoint{Hostname: r.hostname, Port: hostPort}, nil
}

func (r *engineRepository) Stop(ctx context.Context, identity model.Identity) error {
	log.Debug("stopping container", "identity", identity)

	ctx, cancel := r.bound(ctx)
	defer cancel()

	// The engine treats stopping an already-stopped container as a no-op.
	if err := r.client.ContainerStop(ctx, identity.String(), container.StopOptions{}); err != nil {
		if errdefs.IsNotFound(err) {
			return fmt.Errorf("%w: %s", repository.ErrNotFound, identity)
		}
		return r.classify("stop container", err)
	}

	log.Info("container stopped", "identity", identity)
	return nil
}

// pullImage fetches the image using the configured registry credentials.
func (r *engineRepository) pullImage(ctx context.Context, ref string) error {
	ctx, cancel := context.WithTimeout(ctx, r.requestTimeout*4)
	defer cancel()

	reader, err := r.client.ImagePull(ctx, ref, image.PullOptions{RegistryAuth: r.registryAuth})
	if err != nil {
		return r.classify("pull image", err)
	}
	defer reader.Close()

	// Drain the progress stream; the pull completes only once it is read.
	buf := make([]byte, 4096)
	for {
		if _, err := reader.Read(buf); err != nil {
			break
		}
	}
	return nil
}

// bound applies the configured per-request timeout to an engine call.
func (r *engineRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.requestTimeout)
}

// classify maps transport-level failures onto the engine error taxonomy.
// Anything unrecognized propagates wrapped but uninterpreted.
func (r *engineRepository) classify(op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %v", repository.ErrEngineTimeout, op, err)
	case client.IsErrConnectionFailed(err):
		return fmt.Errorf("%w: %s: %v", repository.ErrEngineUnavailable, op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
