package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// setupWizard interactively collects the required settings and writes
// settings.yaml and the keywords file.
type setupWizard struct {
	in  *bufio.Reader
	out io.Writer
}

func newSetupWizard(in io.Reader, out io.Writer) *setupWizard {
	return &setupWizard{in: bufio.NewReader(in), out: out}
}

// Run walks through every settings section and writes the files. An
// existing settings file is only replaced after confirmation.
func (w *setupWizard) Run(settingsPath string) error {
	fmt.Fprintln(w.out, "SEO Content Generator - Configuração Inicial")
	fmt.Fprintln(w.out, "Vamos configurar os parâmetros necessários para o funcionamento do gerador.")

	if _, err := os.Stat(settingsPath); err == nil {
		if !w.confirm(fmt.Sprintf("O arquivo %s já existe. Deseja substituí-lo?", settingsPath)) {
			fmt.Fprintln(w.out, "Configuração mantida.")
			return nil
		}
	}

	var settings Settings

	fmt.Fprintln(w.out, "\nConfiguração da OpenAI")
	settings.OpenAI.APIKey = w.ask("API Key da OpenAI", "")
	settings.OpenAI.Model = w.ask("Modelo da OpenAI", "gpt-4o-mini")

	fmt.Fprintln(w.out, "\nConfiguração do WordPress")
	settings.WordPress.SiteURL = w.ask("URL do site WordPress (sem barra no final)", "https://seu-site.com")
	settings.WordPress.Username = w.ask("Nome de usuário WordPress", "")
	settings.WordPress.AppPassword = w.ask("Senha de aplicação WordPress", "")

	fmt.Fprintln(w.out, "\nConfiguração de palavras-chave")
	settings.Keywords.File = w.ask("Arquivo de palavras-chave", "keywords.txt")

	fmt.Fprintln(w.out, "\nConfiguração de conteúdo")
	settings.Content.PostsPerRun = w.askInt("Número de posts por execução", 1)
	settings.Content.MinWords = w.askInt("Número mínimo de palavras por post", 800)
	settings.Content.MaxWords = w.askInt("Número máximo de palavras por post", 1500)
	settings.Content.TargetCategory = w.ask("Categoria alvo (deixe em branco para nenhuma)", "")
	settings.Content.GenerateImages = w.confirm("Gerar imagens com IA?")

	fmt.Fprintln(w.out, "\nConfiguração do Call-to-Action")
	settings.CTA.URL = w.ask("URL do CTA", "https://seu-site.com/oferta")
	settings.CTA.Text = w.ask("Texto do CTA", "Quero Crescer")

	settings.Provider = "openai"
	settings.applyDefaults()

	data, err := yaml.Marshal(&settings)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(settingsPath, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", settingsPath, err)
	}
	fmt.Fprintf(w.out, "\n✓ Arquivo de configuração %s criado com sucesso!\n", settingsPath)

	if err := w.writeKeywordsFile(settings.Keywords.File); err != nil {
		return err
	}

	fmt.Fprintln(w.out, "\nConfiguração concluída! Execute o gerador para publicar o primeiro artigo.")
	return nil
}

func (w *setupWizard) writeKeywordsFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		if !w.confirm(fmt.Sprintf("O arquivo %s já existe. Deseja substituí-lo?", path)) {
			return nil
		}
	}
	if err := os.WriteFile(path, []byte(defaultKeywordsContent), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(w.out, "✓ Arquivo de palavras-chave %s criado com sucesso!\n", path)
	return nil
}

func (w *setupWizard) ask(label, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprintf(w.out, "%s [%s]: ", label, defaultValue)
	} else {
		fmt.Fprintf(w.out, "%s: ", label)
	}
	line, err := w.in.ReadString('\n')
	if err != nil && line == "" {
		return defaultValue
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue
	}
	return line
}

func (w *setupWizard) askInt(label string, defaultValue int) int {
	answer := w.ask(label, strconv.Itoa(defaultValue))
	n, err := strconv.Atoi(answer)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func (w *setupWizard) confirm(label string) bool {
	answer := strings.ToLower(w.ask(label+" (s/n)", "n"))
	return answer == "s" || answer == "sim" || answer == "y" || answer == "yes"
}
