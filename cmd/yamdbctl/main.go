// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command yamdbctl is the YaMDb operator CLI: schema migrations and superuser
// bootstrap against the database named by DATABASE_URL.
package main

import "github.com/taibuivan/yamdb/cmd/yamdbctl/commands"

func main() {
	commands.Execute()
}
