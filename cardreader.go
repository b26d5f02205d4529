package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// cardReader runs an external reader program and reports each card number it prints.
type cardReader struct {
	command    *exec.Cmd
	callback   readerCallback
	stdoutPipe io.ReadCloser
	done       chan struct{}
}

type readerCallback func(card string)

func startReader(ctx context.Context, name string, cb readerCallback) (*cardReader, error) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return nil, errors.New("empty card reader command")
	}
	reader := &cardReader{
		callback: cb,
		command:  exec.CommandContext(ctx, fields[0], fields[1:]...),
		done:     make(chan struct{}),
	}

	var err error
	reader.stdoutPipe, err = reader.command.StdoutPipe()
	if err == nil {
		err = reader.command.Start()
	}
	if err != nil {
		return nil, err
	}

	go func() {
		defer close(reader.done)
		in := bufio.NewScanner(reader.stdoutPipe)
		for in.Scan() {
			if card := strings.TrimSpace(in.Text()); card != "" {
				reader.callback(card)
			}
		}
		if err := in.Err(); err != nil {
			log.WithError(err).Warn("card reader pipe failed")
		} else {
			log.Info("reached EOF for reader pipe")
		}
	}()

	return reader, nil
}

func (reader *cardReader) stop() error {
	if reader.command.Process == nil {
		return nil
	}
	err := reader.command.Process.Signal(os.Interrupt)
	<-reader.done
	_ = reader.command.Wait()
	return err
}
