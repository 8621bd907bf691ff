// Command wfmoudpecho is a sample daemon built on the reactor package,
// direct descendant of wfmotest.cpp's MyDaemon: it binds two UDP
// sockets on loopback ports 5000 and 6000, reports packets as they
// arrive, and drives one repeating and one one-shot timer alongside
// them, all multiplexed onto a single reactor loop.
//
// Author: momentics <momentics@gmail.com>
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sys/unix"

	"github.com/smallpearl/wfmoreactor/control"
	"github.com/smallpearl/wfmoreactor/reactor"
)

// asyncSocket is a non-blocking loopback UDP socket whose raw file
// descriptor doubles as the reactor's readiness handle, mirroring
// wfmotest.cpp's AsyncSocket wrapping a WSAEVENT-backed HANDLE.
type asyncSocket struct {
	port int
	fd   int
}

func newAsyncSocket(port int) (*asyncSocket, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	if err != nil {
		return nil, err
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	addr := &unix.SockaddrInet4{Port: port, Addr: [4]byte{127, 0, 0, 1}}
	if err := unix.Bind(fd, addr); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	return &asyncSocket{port: port, fd: fd}, nil
}

func (s *asyncSocket) Handle() reactor.Handle { return reactor.Handle(s.fd) }

func (s *asyncSocket) Close() error { return unix.Close(s.fd) }

// readIncomingPacket drains every datagram currently queued on the
// socket, logging each one, matching the original's read-until-EWOULDBLOCK loop.
func (s *asyncSocket) readIncomingPacket() {
	buf := make([]byte, 64*1024)
	for {
		n, _, err := unix.Recvfrom(s.fd, buf, 0)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return
			}
			log.Printf("wfmoudpecho: recv error on port %d: %v", s.port, err)
			return
		}
		log.Printf("wfmoudpecho: %d bytes received on port %d", n, s.port)
	}
}

// watchDumpSignal calls dump every time the process receives SIGUSR1,
// giving an operator a way to inspect debug probes and metrics without
// restarting the daemon or wiring up an HTTP endpoint.
func watchDumpSignal(dump func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1)
	for range sigCh {
		dump()
	}
}

func main() {
	if _, err := maxprocs.Set(maxprocs.Logger(log.Printf)); err != nil {
		log.Printf("wfmoudpecho: maxprocs: %v", err)
	}

	configPath := flag.String("config", "", "optional TOML config file to load and watch")
	flag.Parse()

	cfg := control.NewConfigStore()
	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			log.Fatalf("wfmoudpecho: %v", err)
		}
		stop, err := cfg.WatchFile(*configPath)
		if err != nil {
			log.Fatalf("wfmoudpecho: %v", err)
		}
		defer stop()
	}

	metrics := control.NewMetricsRegistry()
	probes := control.NewDebugProbes()
	control.RegisterPlatformProbes(probes)

	dumpState := func() {
		log.Printf("wfmoudpecho: debug=%v metrics=%v", probes.DumpState(), metrics.GetSnapshot())
	}
	control.RegisterReloadHook("dump-state", func(generation uint64) {
		log.Printf("wfmoudpecho: config reload generation %d", generation)
		dumpState()
	})
	go watchDumpSignal(dumpState)

	r, err := reactor.New(
		reactor.WithBeginLoopHook(func() {
			log.Println("wfmoudpecho: reactor loop starting")
		}),
		reactor.WithEndLoopHook(func(graceful bool) {
			log.Printf("wfmoudpecho: reactor loop stopped, graceful=%v", graceful)
		}),
		reactor.WithHandleRemovedHook(func(h reactor.Handle) {
			metrics.Set("last_handle_removed", uint64(h))
		}),
	)
	if err != nil {
		log.Fatalf("wfmoudpecho: creating reactor: %v", err)
	}

	socket1, err := newAsyncSocket(5000)
	if err != nil {
		log.Fatalf("wfmoudpecho: binding port 5000: %v", err)
	}
	defer socket1.Close()

	socket2, err := newAsyncSocket(6000)
	if err != nil {
		log.Fatalf("wfmoudpecho: binding port 6000: %v", err)
	}
	defer socket2.Close()

	if !r.AddWaitHandle(socket1.Handle(), socket1.readIncomingPacket) {
		log.Fatal("wfmoudpecho: reactor at capacity registering socket 5000")
	}
	if !r.AddWaitHandle(socket2.Handle(), socket2.readIncomingPacket) {
		log.Fatal("wfmoudpecho: reactor at capacity registering socket 6000")
	}

	probes.RegisterProbe("sockets.registered", func() any { return 2 })

	_, ok := r.AddTimer(1000, true, func() {
		fires := metrics.Incr("routine_timer_fires", 1)
		log.Printf("wfmoudpecho: routine timer has expired (fire #%d)", fires)
	})
	if !ok {
		log.Fatal("wfmoudpecho: reactor at capacity registering routine timer")
	}

	var oneOffID uint64
	oneOffID, ok = r.AddTimer(3000, false, func() {
		log.Println("wfmoudpecho: one-off timer has expired")
		r.RemoveTimer(oneOffID)
	})
	if !ok {
		log.Fatal("wfmoudpecho: reactor at capacity registering one-off timer")
	}

	if !r.Start() {
		log.Fatal("wfmoudpecho: reactor already started")
	}
	log.Println("wfmoudpecho: daemon started, press Ctrl+C to stop")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	r.Stop()
	dumpState()
	log.Println("wfmoudpecho: shut down cleanly")
}
