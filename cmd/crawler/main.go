// Command crawler fetches the readable text of one website, politely and
// breadth first, and writes it as a JSON Page Record.
//
// Usage:
//
//	crawler crawl https://docs.example.com --max-pages 50 --politeness 1000
package main

func main() {
	Execute()
}
