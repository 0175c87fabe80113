package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"AveBuf/pkg/buffer"
	"AveBuf/pkg/utils"
	"github.com/urfave/cli/v2"
)

func openSource(ctx *cli.Context) (io.Reader, int64, error) {
	var src io.Reader = os.Stdin
	var size int64 = -1
	if ctx.Args().Len() > 0 {
		f, err := os.Open(ctx.Args().Get(0))
		if err != nil {
			return nil, 0, err
		}
		if st, err := f.Stat(); err == nil {
			size = st.Size()
		}
		src = f
	}
	if bw := ctx.Int64("bwlimit"); bw > 0 {
		src = buffer.Throttled(src, bw<<20)
	}
	return src, size, nil
}

func scan(ctx *cli.Context) error {
	setLoggerLevel(ctx)
	src, _, err := openSource(ctx)
	if err != nil {
		return err
	}
	r, err := buffer.NewLineReader(src, ctx.Int("buffer")<<10)
	if err != nil {
		return err
	}
	defer r.Close()

	start := time.Now()
	var lines, total, longest int
	for {
		line, err := r.ReadLine()
		if err != nil {
			return err
		}
		n := len(line.Slice())
		line.Release()
		if n == 0 {
			break
		}
		lines++
		total += n
		if n > longest {
			longest = n
		}
	}
	logger.Debugf("scanned in %s", time.Since(start))
	fmt.Printf("%8d lines\n%8d longest\n%s\n", lines, longest, utils.FormatBytes(uint64(total)))
	return nil
}

func scanFlags() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "count lines of a file (or stdin) without copying them out of the buffer",
		ArgsUsage: "[PATH]",
		Action:    scan,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "buffer",
				Value: 64,
				Usage: "initial chunk capacity in KiB",
			},
			&cli.Int64Flag{
				Name:  "bwlimit",
				Usage: "limit reading speed in MiB/s (0 means unlimited)",
			},
		},
	}
}
