// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/fault"
)

const fileWatcherLoggerPrefix = "file-watcher"

// fileWatcher - watch the configuration file for modification
//
// a change is reported on the change channel so the node connection
// can be re-established with the new settings, removal of the file is
// reported on the remove channel and shuts the processor down
type fileWatcher struct {
	log      *logger.L
	watcher  *fsnotify.Watcher
	filePath string
	change   chan struct{}
	remove   chan struct{}
}

func newFileWatcher(targetFile string, log *logger.L) (*fileWatcher, error) {

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	filePath, err := filepath.Abs(filepath.Clean(targetFile))
	if nil != err {
		return nil, err
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fault.KeyFileNotFound
	}

	return &fileWatcher{
		log:      log,
		watcher:  watcher,
		filePath: filePath,
		change:   make(chan struct{}, 1),
		remove:   make(chan struct{}, 1),
	}, nil
}

func (w *fileWatcher) start() error {

	err := w.watcher.Add(w.filePath)
	if nil != err {
		w.log.Errorf("watcher add error: %s", err)
		return err
	}

	go func() {
		for {
			event := <-w.watcher.Events
			w.log.Infof("file event: %v", event)

			if isRemoveEvent(event) {
				w.log.Errorf("file %s removed, stop", w.filePath)
				w.send(w.remove, "remove")
				return
			}

			if path.Base(event.Name) != path.Base(w.filePath) {
				continue
			}

			if isChangeEvent(event) {
				w.send(w.change, "change")
			}
		}
	}()

	return nil
}

// a full channel already has an unhandled event pending
func (w *fileWatcher) send(ch chan<- struct{}, name string) {
	if len(ch) == cap(ch) {
		w.log.Infof("event channel %s full, discard event", name)
		return
	}
	ch <- struct{}{}
}

func isRemoveEvent(event fsnotify.Event) bool {
	return "" == event.Name || event.Op&fsnotify.Remove == fsnotify.Remove
}

func isChangeEvent(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Chmod == fsnotify.Chmod
}
