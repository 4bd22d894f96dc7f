// Command sfsctl drives a Simple File System image from the command line:
// format a fresh image, list and inspect the files on it, and read, write,
// or remove them, without writing a single line of Go to exercise the
// library.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/NikolasPasichnik/SimpleFileSystem/sfs"
)

func main() {
	app := cli.App{
		Name:  "sfsctl",
		Usage: "inspect and manipulate Simple File System disk images",
		Commands: []*cli.Command{
			formatCommand,
			lsCommand,
			statCommand,
			catCommand,
			writeCommand,
			rmCommand,
			fsckCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("sfsctl: %s", err.Error())
	}
}

var formatCommand = &cli.Command{
	Name:      "format",
	Usage:     "create a fresh, empty image at the given path",
	ArgsUsage: "IMAGE_PATH",
	Action: func(c *cli.Context) error {
		path := c.Args().First()
		if path == "" {
			return cli.Exit("format requires an image path", 1)
		}

		fsys, err := sfs.Format(path)
		if err != nil {
			return err
		}
		return fsys.Unmount()
	},
}

var lsCommand = &cli.Command{
	Name:      "ls",
	Usage:     "list every file on the image",
	ArgsUsage: "IMAGE_PATH",
	Action: func(c *cli.Context) error {
		fsys, err := mountFromArgs(c)
		if err != nil {
			return err
		}
		defer fsys.Unmount()

		for {
			name, ok := fsys.Next()
			if !ok {
				break
			}
			size, err := fsys.Size(name)
			if err != nil {
				return err
			}
			fmt.Printf("%-16s %d\n", name, size)
		}
		return nil
	},
}

var statCommand = &cli.Command{
	Name:      "stat",
	Usage:     "print the size of one file",
	ArgsUsage: "IMAGE_PATH FILENAME",
	Action: func(c *cli.Context) error {
		fsys, err := mountFromArgs(c)
		if err != nil {
			return err
		}
		defer fsys.Unmount()

		name := c.Args().Get(1)
		size, err := fsys.Size(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d bytes\n", name, size)
		return nil
	},
}

var catCommand = &cli.Command{
	Name:      "cat",
	Usage:     "print a file's contents to stdout",
	ArgsUsage: "IMAGE_PATH FILENAME",
	Action: func(c *cli.Context) error {
		fsys, err := mountFromArgs(c)
		if err != nil {
			return err
		}
		defer fsys.Unmount()

		name := c.Args().Get(1)
		fd, err := fsys.Open(name)
		if err != nil {
			return err
		}
		defer fsys.Close(fd)

		if err := fsys.Seek(fd, 0); err != nil {
			return err
		}

		buf := make([]byte, sfs.B)
		for {
			n, err := fsys.Read(fd, buf)
			if err != nil {
				return err
			}
			if n == 0 {
				break
			}
			if _, err := os.Stdout.Write(buf[:n]); err != nil {
				return err
			}
		}
		return nil
	},
}

var writeCommand = &cli.Command{
	Name:      "write",
	Usage:     "write stdin to a file, overwriting from the start",
	ArgsUsage: "IMAGE_PATH FILENAME",
	Action: func(c *cli.Context) error {
		fsys, err := mountFromArgs(c)
		if err != nil {
			return err
		}
		defer fsys.Unmount()

		name := c.Args().Get(1)
		fd, err := fsys.Open(name)
		if err != nil {
			return err
		}
		defer fsys.Close(fd)

		if err := fsys.Seek(fd, 0); err != nil {
			return err
		}

		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}

		n, err := fsys.Write(fd, data)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d of %d bytes\n", n, len(data))
		return nil
	},
}

var rmCommand = &cli.Command{
	Name:      "rm",
	Usage:     "remove a file",
	ArgsUsage: "IMAGE_PATH FILENAME",
	Action: func(c *cli.Context) error {
		fsys, err := mountFromArgs(c)
		if err != nil {
			return err
		}
		defer fsys.Unmount()

		return fsys.Remove(c.Args().Get(1))
	},
}

var fsckCommand = &cli.Command{
	Name:      "fsck",
	Usage:     "check every invariant of the image's metadata",
	ArgsUsage: "IMAGE_PATH",
	Action: func(c *cli.Context) error {
		fsys, err := mountFromArgs(c)
		if err != nil {
			return err
		}
		defer fsys.Unmount()

		if err := fsys.Check(); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		fmt.Println("ok")
		return nil
	},
}

func mountFromArgs(c *cli.Context) (*sfs.FileSystem, error) {
	path := c.Args().First()
	if path == "" {
		return nil, cli.Exit("missing image path", 1)
	}
	return sfs.Mount(path)
}
