package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/RashadAnsari/qrstudio"
)

func main() {
	logger := logrus.New()

	gen := qrstudio.NewGenerator(qrstudio.DirSaver{Dir: "."}, qrstudio.LogNotifier{Logger: logger}, logger)
	gen.SetURL("https://rashadansari.github.io")

	// Same as pressing the download button: writes qr-code.png.
	if err := gen.Download(context.Background()); err != nil {
		log.Fatal(err.Error())
	}

	for _, f := range []qrstudio.Format{qrstudio.FormatSVG, qrstudio.FormatJPEG, qrstudio.FormatPDF, qrstudio.FormatBMP} {
		writeToFile(gen, f)
	}

	for _, f := range []qrstudio.Format{qrstudio.FormatPNG, qrstudio.FormatSVG} {
		stdoutBase64(gen, f)
		fmt.Println("----------")
	}
}

func writeToFile(gen *qrstudio.Generator, f qrstudio.Format) {
	size := 500
	fileMode := os.FileMode(0644)

	bytes, err := gen.Export(f, size, false)
	if err != nil {
		log.Fatal(err.Error())
	}

	if err := os.WriteFile("qr."+string(f), bytes, fileMode); err != nil {
		log.Fatal(err.Error())
	}
}

func stdoutBase64(gen *qrstudio.Generator, f qrstudio.Format) {
	size := 500

	bytes, err := gen.Export(f, size, true)
	if err != nil {
		log.Fatal(err.Error())
	}

	fmt.Println(string(bytes))
}
