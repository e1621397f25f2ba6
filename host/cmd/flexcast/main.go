// Command flexcast streams PNG frames to a sketch running the pixel
// driver: it decodes each image, gamma-corrects it, and sends it row by
// row over a serial port, flipping on frame boundaries and logging the
// sketch's acknowledgements.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"flexled/driver"
	"flexled/host/frame"
	"flexled/host/serial"
	"flexled/render"
)

var (
	configPath = "flexcast.toml"
	device     = ""
	verbose    = false
	once       = false
)

func init() {
	pflag.StringVarP(&configPath, "config", "c", configPath, "configuration file")
	pflag.StringVarP(&device, "device", "d", device, "serial device (overrides config)")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
	pflag.BoolVar(&once, "once", once, "play the image list once and exit")
}

func main() {
	pflag.Parse()

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).Level(level)

	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("flexcast failed")
	}
}

func run() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if device != "" {
		cfg.Device = device
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	port, err := serial.Open(&serial.Config{
		Device:      cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: 500,
	})
	if err != nil {
		return err
	}
	defer port.Close()

	log.Info().Str("device", cfg.Device).Int("width", cfg.Width).Int("height", cfg.Height).
		Msg("streaming")

	s := &streamer{
		cfg:   cfg,
		enc:   frame.NewEncoder(port),
		gamma: render.NewGamma(cfg.Gamma),
		acked: make(chan frame.Ack, 16),
	}

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error { return s.readAcks(ctx, port) })
	errg.Go(func() error {
		defer cancel()
		return s.play(ctx)
	})
	return errg.Wait()
}

type streamer struct {
	cfg   Config
	enc   *frame.Encoder
	gamma *render.Gamma
	acked chan frame.Ack
}

// play announces the geometry and then cycles through the image list at
// the configured rate.
func (s *streamer) play(ctx context.Context) error {
	err := s.enc.WriteInit(frame.Init{
		Width:      uint16(s.cfg.Width),
		Height:     uint8(s.cfg.Height),
		Serpentine: s.cfg.Serpentine,
	})
	if err != nil {
		return err
	}

	tick := time.NewTicker(time.Second / time.Duration(s.cfg.Rate))
	defer tick.Stop()

	var seq uint8
	for pass := 0; ; pass++ {
		for _, name := range s.cfg.Images {
			if err := s.sendImage(ctx, name, seq); err != nil {
				return err
			}
			seq++

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick.C:
			}
		}
		if once {
			return nil
		}
	}
}

func (s *streamer) sendImage(ctx context.Context, name string, seq uint8) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	dec, err := render.DecodePNG(f)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	iw, h := dec.Bounds()
	w := iw
	if w > s.cfg.Width {
		w = s.cfg.Width
	}
	if h > s.cfg.Height {
		h = s.cfg.Height
	}

	buf := make([]driver.Color, iw)
	for y := 0; y < h; y++ {
		if err := dec.Row(y, buf); err != nil {
			return fmt.Errorf("%s row %d: %w", name, y, err)
		}
		for i := 0; i < w; i++ {
			buf[i] = s.gamma.Apply(buf[i])
		}
		if err := s.enc.WriteRow(frame.Row{Seq: seq, Y: uint8(y), Pixels: buf[:w]}); err != nil {
			return err
		}
	}

	if err := s.enc.WriteFlip(frame.Flip{Seq: seq}); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case ack := <-s.acked:
		if ack.Seq != seq {
			log.Warn().Uint8("want", seq).Uint8("got", ack.Seq).Msg("ack out of order")
		} else if !ack.OK {
			log.Warn().Uint8("seq", seq).Msg("frame rejected")
		} else {
			log.Debug().Uint8("seq", seq).Str("image", name).Msg("frame presented")
		}
	case <-time.After(2 * time.Second):
		log.Warn().Uint8("seq", seq).Msg("no ack; continuing")
	}
	return nil
}

// readAcks drains the return channel so acknowledgements are available
// to the sender and everything else is logged and dropped.
func (s *streamer) readAcks(ctx context.Context, r io.Reader) error {
	dec := frame.NewDecoder(r)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		pkt, err := dec.Next()
		if err != nil {
			if errors.Is(err, frame.ErrBadCRC) || errors.Is(err, frame.ErrBadPacket) {
				log.Debug().Err(err).Msg("dropping corrupt packet")
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		ack, ok := pkt.(frame.Ack)
		if !ok {
			log.Debug().Msgf("unexpected packet %T", pkt)
			continue
		}
		select {
		case s.acked <- ack:
		default:
			log.Debug().Uint8("seq", ack.Seq).Msg("ack dropped, sender behind")
		}
	}
}
