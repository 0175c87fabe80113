package main

import (
	"fmt"

	"AveBuf/pkg/buffer"
	"AveBuf/pkg/compress"
	"AveBuf/pkg/utils"
	"github.com/urfave/cli/v2"
)

func pack(ctx *cli.Context) error {
	setLoggerLevel(ctx)
	algr := ctx.String("algr")
	compr := compress.NewCompressor(algr)
	if compr == nil {
		return fmt.Errorf("unknown compress algorithm: %s", algr)
	}
	src, size, err := openSource(ctx)
	if err != nil {
		return err
	}

	chunkSize := ctx.Int("chunk-size") << 10
	var policy buffer.SizePolicy
	if ctx.Bool("doubling") {
		policy = buffer.Doubling(chunkSize, chunkSize<<8)
	} else {
		policy = buffer.FixedSize(chunkSize)
	}
	r, err := buffer.NewReader(src, policy)
	if err != nil {
		return err
	}
	defer r.Close()

	progress, bar := utils.NewDynProgressBar("reading: ", ctx.Bool("quiet"))
	if size > 0 {
		bar.SetTotal(size, false)
	}
	for {
		n, err := r.Fill()
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		bar.IncrBy(n)
	}
	if !bar.Completed() {
		bar.SetTotal(bar.Current(), true)
	}
	progress.Wait()

	snap := buffer.Capture(r, true)
	defer snap.Release()

	var dst []byte
	var packed int
	for i := 0; i < snap.Len(); i++ {
		view := snap.View(i)
		if len(view) == 0 {
			continue
		}
		if bound := compr.CompressBound(len(view)); bound > len(dst) {
			dst = make([]byte, bound)
		}
		n, err := compr.Compress(dst, view)
		if err != nil {
			return fmt.Errorf("compress chunk %d with %s: %s", i, compr.Name(), err)
		}
		packed += n
	}

	raw := snap.Size()
	fmt.Printf("%8d chunks (%d retired)\n", snap.Len(), r.History().Len())
	fmt.Printf("raw:      %s\n", utils.FormatBytes(uint64(raw)))
	fmt.Printf("packed:   %s (%s)\n", utils.FormatBytes(uint64(packed)), compr.Name())
	if packed > 0 {
		fmt.Printf("ratio:    %.2f\n", float64(raw)/float64(packed))
	}
	ru := utils.GetRusage()
	logger.Debugf("utime %.3fs stime %.3fs clock %s", ru.GetUtime(), ru.GetStime(), utils.Clock())
	return nil
}

func packFlags() *cli.Command {
	return &cli.Command{
		Name:      "pack",
		Usage:     "read a file into chunks and report its block-compressed size",
		ArgsUsage: "[PATH]",
		Action:    pack,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "algr",
				Value: "zstd",
				Usage: "compress algorithm (lz4, zstd, none)",
			},
			&cli.IntFlag{
				Name:  "chunk-size",
				Value: 1024,
				Usage: "chunk capacity in KiB",
			},
			&cli.BoolFlag{
				Name:  "doubling",
				Usage: "double the chunk capacity after each rollover",
			},
			&cli.Int64Flag{
				Name:  "bwlimit",
				Usage: "limit reading speed in MiB/s (0 means unlimited)",
			},
		},
	}
}
