// Command richmenu manages the bot's default rich menu. It creates the
// menu structure, optionally uploads an image for it, and sets it as
// the default for all users.
//
// Usage:
//
//	richmenu create
//	richmenu upload <richMenuId> <imagePath>
//	richmenu default <richMenuId>
package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

func main() {
	_ = godotenv.Load()

	token := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")
	if token == "" {
		fmt.Fprintln(os.Stderr, "LINE_CHANNEL_ACCESS_TOKEN is required")
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		usage()
	}

	client, err := messaging_api.NewMessagingApiAPI(token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create":
		createRichMenu(client)
	case "upload":
		if len(os.Args) != 4 {
			usage()
		}
		uploadImage(token, os.Args[2], os.Args[3])
	case "default":
		if len(os.Args) != 3 {
			usage()
		}
		setDefault(client, os.Args[2])
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: richmenu create | upload <richMenuId> <imagePath> | default <richMenuId>")
	os.Exit(1)
}

// createRichMenu creates a compact single-area menu that starts the
// recommendation dialog.
func createRichMenu(client *messaging_api.MessagingApiAPI) {
	result, err := client.CreateRichMenu(&messaging_api.RichMenuRequest{
		Size: &messaging_api.RichMenuSize{
			Width:  2500,
			Height: 843,
		},
		Selected:    true,
		Name:        "recommend-menu",
		ChatBarText: "開啟選單",
		Areas: []messaging_api.RichMenuArea{
			{
				Bounds: &messaging_api.RichMenuBounds{
					X: 0, Y: 0, Width: 2500, Height: 843,
				},
				Action: &messaging_api.MessageAction{
					Text: "推薦",
				},
			},
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create rich menu: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Rich menu created.")
	fmt.Printf("Rich menu ID: %s\n", result.RichMenuId)
	fmt.Println("Next, upload an image with: richmenu upload <richMenuId> <imagePath>")
}

// uploadImage attaches a 2500x843 image to an existing rich menu. The
// content endpoint lives on the data API host, outside the messaging
// client's base URL.
func uploadImage(token, richMenuID, imagePath string) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read image: %v\n", err)
		os.Exit(1)
	}

	contentType := "image/jpeg"
	if filepath.Ext(imagePath) == ".png" {
		contentType = "image/png"
	}

	url := fmt.Sprintf("https://api-data.line.me/v2/bot/richmenu/%s/content", richMenuID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to upload image: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Upload failed with status %d\n", resp.StatusCode)
		os.Exit(1)
	}

	fmt.Println("Image uploaded.")
	fmt.Println("Next, activate the menu with: richmenu default <richMenuId>")
}

func setDefault(client *messaging_api.MessagingApiAPI, richMenuID string) {
	if _, err := client.SetDefaultRichMenu(richMenuID); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set default rich menu: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Default rich menu set. Users will see it in their chats.")
}
