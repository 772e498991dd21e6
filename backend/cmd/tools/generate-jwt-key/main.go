package main

import (
	"flag"
	"fmt"

	"github.com/medina-starter/accounts/shared/utils"
)

const keyCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func main() {
	length := flag.Int("length", 64, "key length in characters")
	flag.Parse()

	key := utils.GenerateRandomString(*length, keyCharset)

	fmt.Println("=================================================")
	fmt.Println("  JWT Signing Key (HS256)")
	fmt.Println("=================================================")
	fmt.Println()
	fmt.Println("Generated key:")
	fmt.Println(key)
	fmt.Println()
	fmt.Println("Add this to your config/private.yaml:")
	fmt.Printf("jwt_key: \"%s\"\n", key)
	fmt.Println()
	fmt.Println("IMPORTANT:")
	fmt.Println("- Keep this key secret and secure!")
	fmt.Println("- Rotating it signs out every user.")
	fmt.Println("- Never commit this key to version control!")
	fmt.Println("=================================================")
}
