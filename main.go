// Команда arletbank управляет банком из командной строки:
//
//	arletbank [flags] <role> <command> [args]
//
// Состояние хранится в одном JSON-файле (database.path).
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
