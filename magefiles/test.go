//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every package test.
func (Test) All() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs every package test with the race detector.
func (Test) Race() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withEnv("CGO_ENABLED=1"), withStream())
	return err
}

// Runs the tests of one package, e.g. ./engine/systems.
func (Test) Pkg(pkg string) error {
	_, err := executeCmd("go", withArgs("test", "-v", pkg), withDir("."), withStream())
	return err
}
