package telemetry

import (
	"fmt"
	"os"
	"sync"

	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var knownProfiles = map[string]pyroscope.ProfileType{
	"cpu":            pyroscope.ProfileCPU,
	"alloc_objects":  pyroscope.ProfileAllocObjects,
	"alloc_space":    pyroscope.ProfileAllocSpace,
	"inuse_objects":  pyroscope.ProfileInuseObjects,
	"inuse_space":    pyroscope.ProfileInuseSpace,
	"goroutines":     pyroscope.ProfileGoroutines,
	"mutex_count":    pyroscope.ProfileMutexCount,
	"mutex_duration": pyroscope.ProfileMutexDuration,
	"block_count":    pyroscope.ProfileBlockCount,
	"block_duration": pyroscope.ProfileBlockDuration,
}

// Profiler pushes pprof profiles to Pyroscope. The zero value is disabled.
type Profiler struct {
	profiler *pyroscope.Profiler
	logger   *zap.Logger
	stopOnce sync.Once
}

// StartProfiler starts profiling when cfg enables it. Spans of an enabled
// tracer are linked to the profiles taken while they ran.
func StartProfiler(cfg config.ProfilingConfig, service string, tracing *TracerProvider, logger *zap.Logger) (*Profiler, error) {
	if !cfg.Enabled {
		return &Profiler{logger: logger}, nil
	}
	types, err := profileTypes(cfg.ProfileTypes)
	if err != nil {
		return nil, err
	}

	tags := map[string]string{}
	if host, err := os.Hostname(); err == nil {
		tags["hostname"] = host
	}
	p, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   service,
		ServerAddress:     cfg.ServerAddress,
		BasicAuthUser:     cfg.BasicAuthUser,
		BasicAuthPassword: cfg.BasicAuthPass,
		Tags:              tags,
		ProfileTypes:      types,
		Logger:            logger.Named("pyroscope").Sugar(),
	})
	if err != nil {
		return nil, fmt.Errorf("start profiler: %w", err)
	}
	tracing.linkProfiles()

	logger.Info("Profiling enabled",
		zap.String("server_address", cfg.ServerAddress),
		zap.Strings("profile_types", cfg.ProfileTypes))
	return &Profiler{profiler: p, logger: logger}, nil
}

func profileTypes(names []string) ([]pyroscope.ProfileType, error) {
	types := make([]pyroscope.ProfileType, 0, len(names))
	for _, name := range names {
		t, ok := knownProfiles[name]
		if !ok {
			return nil, fmt.Errorf("unknown profile type %q", name)
		}
		types = append(types, t)
	}
	return types, nil
}

// linkProfiles tags spans with the profile ID of the goroutine running them
func (tp *TracerProvider) linkProfiles() {
	if tp == nil || tp.provider == nil {
		return
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp.provider))
}

func (p *Profiler) IsEnabled() bool {
	return p != nil && p.profiler != nil
}

// Stop uploads the last profiles. Later calls do nothing.
func (p *Profiler) Stop() error {
	if !p.IsEnabled() {
		return nil
	}
	var err error
	p.stopOnce.Do(func() {
		err = p.profiler.Stop()
	})
	return err
}
