//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the testbed binary into bin/.
func (Build) Engine() error {
	_, err := executeCmd("go", withArgs("build", "-o", "bin/tessera", "."), withStream())
	return err
}

// Builds the texture preload tool into bin/.
func (Build) Preload() error {
	_, err := executeCmd("go", withArgs("build", "-o", "bin/texpreload", "./cmd/texpreload"), withStream())
	return err
}

// Builds every binary.
func (Build) All() {
	mg.Deps(Build.Engine, Build.Preload)
}

// Runs go mod tidy.
func (Build) Tidy() error {
	return goTidy()
}
