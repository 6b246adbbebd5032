package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"sessiondock/internal/application/command"
	"sessiondock/internal/application/command/connect_entity"
	"sessiondock/internal/application/command/provision_connection"
	"sessiondock/internal/application/command/teardown_connection"
	"sessiondock/internal/application/config"
	"sessiondock/internal/application/query"
	"sessiondock/internal/application/query/get_endpoint"
	"sessiondock/internal/catalog"
	"sessiondock/internal/domain/model"
	"sessiondock/internal/infra/docker/engine"
	"sessiondock/internal/lifecycle"
	"sessiondock/internal/version"
	"sessiondock/pkg/cqrs"
	log "sessiondock/pkg/log"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	showHelp := flag.Bool("help", false, "Show help information")
	configPath := flag.String("config", "sessiondock.config.yaml", "Path to configuration file")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sessiondock version: %s\n", version.GetVersion())
		os.Exit(0)
	}

	if *showHelp || flag.NArg() == 0 {
		fmt.Println("sessiondock - on-demand desktop container provisioning")
		fmt.Println("Usage: sessiondock [options] <operation> [arguments]")
		fmt.Println("Options:")
		fmt.Println("  --version  Show version information")
		fmt.Println("  --help     Show help information")
		fmt.Println("  --config   Path to configuration file (default: sessiondock.config.yaml)")
		fmt.Println("Operations:")
		fmt.Println("  connect <name> <username> [attr=value ...]      Connect via entity attributes")
		fmt.Println("  provision <identity> <image> <port> [protocol]  Ensure a running container")
		fmt.Println("  teardown <identity>                             Stop a provisioned container")
		fmt.Println("  endpoint <identity> <port>                      Print the published endpoint")
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.InitLog(cfg.LogLevel)

	engineRepo, err := engine.NewEngineRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to create engine client: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orchestrator := lifecycle.NewOrchestrator(engineRepo, cfg)
	cat := catalog.NewCatalog(catalog.NewMemoryDirectory())

	// Cancel on SIGINT/SIGTERM; in-flight engine calls complete regardless
	// so containers are never left half-created. Containers connected in
	// this process are single-use and released before exit.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("received signal, shutting down", "signal", sig.String())
		if err := cat.ReleaseAll(context.Background()); err != nil {
			log.Error("failed to release connections", "error", err)
		}
		cancel()
	}()

	commandBus := cqrs.NewCommandBus(ctx)
	if err := command.RegisterCommandHandlers(commandBus, orchestrator, cat); err != nil {
		log.Fatalf("Failed to register command handlers: %v", err)
	}

	queryBus := cqrs.NewQueryBus()
	if err := query.RegisterQueryHandlers(queryBus, engineRepo); err != nil {
		log.Fatalf("Failed to register query handlers: %v", err)
	}

	if err := run(flag.Args(), commandBus, queryBus); err != nil {
		log.Error("operation failed", "error", err)
		commandBus.WaitForCompletion()
		os.Exit(1)
	}
	commandBus.WaitForCompletion()
}

func run(args []string, commandBus cqrs.CommandBus, queryBus cqrs.QueryBus) error {
	switch args[0] {
	case "connect":
		if len(args) < 3 {
			return fmt.Errorf("usage: connect <name> <username> [attribute=value ...]")
		}
		attrs := make(map[string]string, len(args)-3)
		for _, arg := range args[3:] {
			key, value, ok := strings.Cut(arg, "=")
			if !ok || key == "" {
				return fmt.Errorf("invalid attribute %q: expected name=value", arg)
			}
			attrs[key] = value
		}
		return commandBus.Dispatch(connect_entity.ConnectEntityCommand{
			EntityName: args[1],
			Username:   args[2],
			Attributes: attrs,
		})

	case "provision":
		if len(args) < 4 {
			return fmt.Errorf("usage: provision <identity> <image> <port> [protocol]")
		}
		port, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", args[3], err)
		}
		spec := model.ContainerSpec{Image: args[2], InternalPort: port}
		if len(args) > 4 {
			protocol, err := model.ParseProtocol(args[4])
			if err != nil {
				return err
			}
			spec.Protocol = protocol
		}
		return commandBus.Dispatch(provision_connection.ProvisionConnectionCommand{
			Identity: model.Identity(args[1]),
			Spec:     spec,
		})

	case "teardown":
		if len(args) < 2 {
			return fmt.Errorf("usage: teardown <identity>")
		}
		return commandBus.Dispatch(teardown_connection.TeardownConnectionCommand{
			Identity: model.Identity(args[1]),
		})

	case "endpoint":
		if len(args) < 3 {
			return fmt.Errorf("usage: endpoint <identity> <port>")
		}
		port, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", args[2], err)
		}
		result, err := queryBus.Dispatch(get_endpoint.GetEndpointQuery{
			Identity:     model.Identity(args[1]),
			InternalPort: port,
		})
		if err != nil {
			return err
		}
		endpoint := result.(model.ResolvedEndpoint)
		fmt.Printf("%s:%s\n", endpoint.Hostname, endpoint.Port)
		return nil

	default:
		return fmt.Errorf("unknown operation %q", args[0])
	}
}
