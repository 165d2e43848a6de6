// Command facerec trains a face recognition database on a directory of
// labeled images, persists it, and classifies unseen images against it.
package main

func main() {
	Execute()
}
