package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/Barbearia-Digital/service-booking/internal/config"
	"github.com/Barbearia-Digital/service-booking/internal/logger"
)

var CLI struct {
	Usuario string `help:"Usuário da sessão (sobrepõe BARBEARIA_USER)."`
	Tipo    string `help:"Tipo do usuário: admin ou cliente (sobrepõe BARBEARIA_ROLE)."`
	Token   string `help:"Token JWT da sessão (sobrepõe BARBEARIA_TOKEN)."`

	Servicos ServicosCmd `cmd:"" help:"Lista os cortes disponíveis."`
	Agenda   AgendaCmd   `cmd:"" help:"Mostra os agendamentos filtrados por período." default:"1"`
	Agendar  AgendarCmd  `cmd:"" help:"Cria um agendamento."`
	Editar   EditarCmd   `cmd:"" help:"Edita um agendamento (admin)."`
	Remover  RemoverCmd  `cmd:"" help:"Remove um agendamento (admin)."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("barbearia"),
		kong.Description("Agendamentos da barbearia pelo terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if CLI.Usuario != "" {
		cfg.User = CLI.Usuario
	}
	if CLI.Tipo != "" {
		cfg.Role = CLI.Tipo
	}
	if CLI.Token != "" {
		cfg.Token = CLI.Token
	}

	log, err := logger.NewFile(cfg.LogFile, "barbearia", cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	a, err := newApp(cfg, log, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	err = kctx.Run(a)
	kctx.FatalIfErrorf(err)
}
