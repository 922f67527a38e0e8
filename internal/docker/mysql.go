// File: internal/docker/mysql.go
// Brief: MySQL wait and reset helpers used by the --reset-* flows.

package docker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

const (
	mysqlServiceName = "mysql"

	mysqlWaitTimeout  = 60 * time.Second
	mysqlWaitInterval = 1 * time.Second
)

// WaitForMySQL polls the mysql container until mysqladmin answers or the
// timeout elapses. This is the only retry loop in the tool; everything else
// fails fast.
func WaitForMySQL(ctx context.Context) error {
	id, err := findContainer(ctx, mysqlServiceName)
	if err != nil {
		return err
	}
	deadline := time.Now().Add(mysqlWaitTimeout)
	for {
		cmd := exec.CommandContext(ctx, "docker", "exec", id, "mysqladmin", "ping", "--silent")
		if err := cmd.Run(); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("mysql did not become ready within %s", mysqlWaitTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(mysqlWaitInterval):
		}
	}
}

// ExecuteMySQLQuery runs a query inside the mysql container.
func ExecuteMySQLQuery(ctx context.Context, query string) error {
	id, err := findContainer(ctx, mysqlServiceName)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, "docker", "exec", id, "mysql", "-e", query)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("mysql query failed: %w\n%s", err, out)
	}
	return nil
}

// ResetDB drops and recreates the named database.
func ResetDB(ctx context.Context, dbName string) error {
	if err := ExecuteMySQLQuery(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", dbName)); err != nil {
		return err
	}
	return ExecuteMySQLQuery(ctx, fmt.Sprintf("CREATE DATABASE `%s`", dbName))
}

// LoadDump streams a SQL dump file into the mysql container.
func LoadDump(ctx context.Context, path string) error {
	id, err := findContainer(ctx, mysqlServiceName)
	if err != nil {
		return err
	}
	dump, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open dump %s: %w", path, err)
	}
	defer dump.Close()

	cmd := exec.CommandContext(ctx, "docker", "exec", "-i", id, "mysql")
	cmd.Stdin = dump
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("load dump %s: %w\n%s", path, err, out)
	}
	return nil
}
