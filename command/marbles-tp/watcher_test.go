// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path"
	"strconv"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/logger"
)

const (
	logDirectory     = "log"
	logFileName      = "test.log"
	logSizeOfFiles   = 30000
	logNumberOfFiles = 10

	testWatchedFile = "testWatcher.conf"
)

func setupLogger(t *testing.T) {
	_ = os.Mkdir(logDirectory, 0o700)
	err := logger.Initialise(logger.Configuration{
		Directory: logDirectory,
		File:      logFileName,
		Size:      logSizeOfFiles,
		Count:     logNumberOfFiles,
		Levels:    map[string]string{logger.DefaultTag: "critical"},
	})
	if nil != err {
		t.Fatalf("logger initialise error: %s", err)
	}
}

func teardown() {
	logger.Finalise()
	removeTestFiles()
}

func removeTestFiles() {
	logFilePath := path.Join(logDirectory, logFileName)
	os.Remove(logFilePath)
	for i := 0; i <= logNumberOfFiles; i += 1 {
		os.Remove(logFilePath + "." + strconv.Itoa(i))
	}
	os.Remove(logDirectory)
	os.Remove(testWatchedFile)
}

func setupTestFileWatcher(t *testing.T) *fileWatcher {
	removeTestFiles()
	setupLogger(t)

	err := ioutil.WriteFile(testWatchedFile, []byte("original"), 0o600)
	if nil != err {
		t.Fatalf("create watched file error: %s", err)
	}

	w, err := newFileWatcher(testWatchedFile, logger.New("test"))
	if nil != err {
		t.Fatalf("new file watcher error: %s", err)
	}
	return w
}

func TestNewFileWatcherWhenFileMissing(t *testing.T) {
	removeTestFiles()
	setupLogger(t)
	defer teardown()

	_, err := newFileWatcher("no-such-file.conf", logger.New("test"))
	if nil == err {
		t.Errorf("no error for missing watched file")
	}
}

func TestStart(t *testing.T) {
	w := setupTestFileWatcher(t)
	defer teardown()

	err := w.start()
	if nil != err {
		t.Fatalf("start error: %s", err)
	}
	time.Sleep(time.Duration(1) * time.Second)

	err = ioutil.WriteFile(w.filePath, []byte("modified"), 0o600)
	if nil != err {
		t.Fatalf("write file error: %s", err)
	}

	select {
	case <-w.change:
	case <-time.After(5 * time.Second):
		t.Errorf("watcher not receive change event")
	}

	os.Remove(testWatchedFile)

	select {
	case <-w.remove:
	case <-time.After(5 * time.Second):
		t.Errorf("watcher not receive remove event")
	}
}

func TestSendWhenChannelFull(t *testing.T) {
	w := setupTestFileWatcher(t)
	defer teardown()

	ch := make(chan struct{}, 1)
	w.send(ch, "test")
	w.send(ch, "test")

	if 1 != len(ch) {
		t.Errorf("send to full channel not discarded, pending: %d", len(ch))
	}
}

func TestIsRemoveEvent(t *testing.T) {
	if !isRemoveEvent(fsnotify.Event{Name: "f", Op: fsnotify.Remove}) {
		t.Errorf("remove event not detected")
	}
	if !isRemoveEvent(fsnotify.Event{}) {
		t.Errorf("empty name event not treated as remove")
	}
	if isRemoveEvent(fsnotify.Event{Name: "f", Op: fsnotify.Write}) {
		t.Errorf("write event treated as remove")
	}
}

func TestIsChangeEvent(t *testing.T) {
	if !isChangeEvent(fsnotify.Event{Name: "f", Op: fsnotify.Write}) {
		t.Errorf("write event not detected")
	}
	if !isChangeEvent(fsnotify.Event{Name: "f", Op: fsnotify.Chmod}) {
		t.Errorf("chmod event not detected")
	}
	if isChangeEvent(fsnotify.Event{Name: "f", Op: fsnotify.Create}) {
		t.Errorf("create event treated as change")
	}
}
