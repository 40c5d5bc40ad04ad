package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/marcostaira/drgestao-admcli/internal/auth"
	"github.com/marcostaira/drgestao-admcli/internal/clients/admins"
	"github.com/marcostaira/drgestao-admcli/internal/clients/api"
	"github.com/marcostaira/drgestao-admcli/internal/clients/params"
	"github.com/marcostaira/drgestao-admcli/internal/clients/templates"
	"github.com/marcostaira/drgestao-admcli/internal/clients/tenants"
	"github.com/marcostaira/drgestao-admcli/internal/clients/whatsapp"
	"github.com/marcostaira/drgestao-admcli/internal/entity"
	"github.com/marcostaira/drgestao-admcli/internal/guard"
	"github.com/marcostaira/drgestao-admcli/internal/permissions"
	"github.com/marcostaira/drgestao-admcli/internal/session"
	"github.com/marcostaira/drgestao-admcli/pkg/config"
	"github.com/marcostaira/drgestao-admcli/pkg/logger"
)

type console struct {
	auth      *auth.Service
	gate      *guard.Gate
	admins    *admins.Client
	tenants   *tenants.Client
	templates *templates.Client
	params    *params.Client
	whatsapp  *whatsapp.Client
	poller    *whatsapp.Poller
	out       io.Writer
}

// requirements maps each console command to the access it needs. Commands
// absent from the table only require an authenticated session. The params
// command needs an extra super-admin check for the system document, done
// inside its handler.
var requirements = map[string]guard.Requirement{
	"admins":    {Level: permissions.LevelSuperAdmin},
	"tenants":   {Level: permissions.LevelAdmin, Permission: "users.read"},
	"templates": {Level: permissions.LevelAdmin, Permission: "settings.read"},
	"params":    {Level: permissions.LevelAdmin, Permission: "settings.read"},
	"whatsapp":  {Level: permissions.LevelOperator, Permission: "dashboard.read"},
	"watch":     {Level: permissions.LevelOperator, Permission: "dashboard.read"},
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l := logger.New(logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(l)

	store, err := session.NewStore(cfg.SessionDir)
	panicOnErr("open session store", err)

	apiClient := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, cfg.RetryAttempts, store)
	authSvc := auth.NewService(apiClient, store)
	authSvc.Bootstrap()

	waClient := whatsapp.NewClient(apiClient)

	c := &console{
		auth:      authSvc,
		gate:      guard.NewGate(authSvc),
		admins:    admins.NewClient(apiClient),
		tenants:   tenants.NewClient(apiClient),
		templates: templates.NewClient(apiClient),
		params:    params.NewClient(apiClient),
		whatsapp:  waClient,
		out:       os.Stdout,
	}
	c.poller = whatsapp.NewPoller(waClient, l, cfg.PollInterval, c.printSummary)

	defer c.poller.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		l.Info("shutting down")
		cancel()
	}()

	replDone := make(chan struct{})

	go func() {
		defer close(replDone)
		c.repl(ctx)
	}()

	select {
	case <-replDone:
	case <-ctx.Done():
	}
}

func (c *console) repl(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)

	c.printf("drgestao admin console. Digite 'help' para os comandos.\n")

	for {
		c.printf("> ")

		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		command, args := fields[0], fields[1:]

		if command == "exit" || command == "quit" {
			return
		}

		cmdCtx := logger.SetCommand(ctx, command)
		c.dispatch(cmdCtx, command, args)
	}
}

func (c *console) dispatch(ctx context.Context, command string, args []string) {
	switch command {
	case "help":
		c.printHelp()

		return
	case "login":
		c.login(ctx, args)

		return
	case "logout":
		c.auth.Logout(ctx)
		c.printf("Sessão encerrada.\n")

		return
	}

	req, ok := requirements[command]
	if !ok {
		req = guard.Requirement{}
	}

	decision := c.gate.Evaluate(req)
	if !decision.Allowed() {
		c.printDenial(decision)

		return
	}

	if user := c.auth.CurrentUser(); user != nil {
		ctx = logger.SetUserID(ctx, strconv.Itoa(user.ID))
	}

	switch command {
	case "whoami":
		c.whoami()
	case "admins":
		c.listAdmins(ctx)
	case "tenants":
		c.runTenants(ctx, args)
	case "templates":
		c.runTemplates(ctx, args)
	case "params":
		c.runParams(ctx, args)
	case "whatsapp":
		c.showSummary(ctx)
	case "watch":
		c.runWatch(ctx, args)
	default:
		c.printf("Comando desconhecido: %s\n", command)
	}
}

func (c *console) printHelp() {
	c.printf(`Comandos:
  login <login> <senha>   autenticar
  logout                  encerrar a sessão
  whoami                  exibir o usuário atual
  admins                  listar administradores
  tenants [id]            listar tenants ou usuários de um tenant
  templates               listar templates padrão
  templates update <id> <conteúdo>
                          alterar o conteúdo de um template padrão
  params admin|system     exibir parâmetros
  params admin|system <json>
                          salvar parâmetros
  whatsapp                exibir resumo do WhatsApp
  watch start|stop        acompanhar o resumo do WhatsApp
  exit                    sair
`)
}

func (c *console) printDenial(decision guard.Decision) {
	switch decision {
	case guard.Checking:
		c.printf("Verificando sessão, tente novamente.\n")
	case guard.DeniedUnauthenticated:
		c.printf("Faça login para continuar.\n")
	case guard.DeniedLevel:
		c.printf("Nível de acesso insuficiente.\n")
	case guard.DeniedPermission:
		c.printf("Permissão insuficiente.\n")
	default:
	}
}

func (c *console) login(ctx context.Context, args []string) {
	if len(args) != 2 {
		c.printf("Uso: login <login> <senha>\n")

		return
	}

	result := c.auth.Login(ctx, entity.Credentials{Login: args[0], Password: args[1]})
	c.printf("%s\n", result.Message)

	for field, messages := range result.Errors {
		for _, msg := range messages {
			c.printf("  %s: %s\n", field, msg)
		}
	}
}

func (c *console) whoami() {
	user := c.auth.CurrentUser()
	if user == nil {
		c.printf("Nenhum usuário autenticado.\n")

		return
	}

	c.printf("%s <%s>\n", user.Name, user.Email)
	c.printf("Nível: %d (%s)\n", user.Level, permissions.LevelDescription(user.Level))
	c.printf("Permissões: %s\n", strings.Join(user.Permissions, ", "))
}

func (c *console) listAdmins(ctx context.Context) {
	users, err := c.admins.List(ctx)
	if err != nil {
		c.printCallError(err)

		return
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOME\tLOGIN\tNÍVEL\tSTATUS")

	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			u.ID, u.Name, u.Login, admins.LevelLabel(u.Level), admins.StatusLabel(u.Active))
	}

	_ = w.Flush()
}

func (c *console) runTenants(ctx context.Context, args []string) {
	if len(args) == 1 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			c.printf("Uso: tenants [id]\n")

			return
		}

		c.listTenantUsers(ctx, id)

		return
	}

	page, err := c.tenants.List(ctx, tenants.ListFilter{})
	if err != nil {
		c.printCallError(err)

		return
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLIENTE\tEMAIL\tSTATUS\tWHATSAPP")

	for _, tn := range page.Data {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			tn.ID, tn.ClientName, tn.Email, tenants.StatusLabel(tn.Active), tenants.StatusLabel(tn.WaActive))
	}

	_ = w.Flush()
	c.printf("Total: %d\n", page.Total)
}

func (c *console) listTenantUsers(ctx context.Context, tenantID int) {
	users, err := c.tenants.Users(ctx, tenantID)
	if err != nil {
		c.printCallError(err)

		return
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOME\tLOGIN\tNÍVEL\tATIVO")

	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", u.ID, u.Name, u.Login, u.Level, admins.StatusLabel(u.Active))
	}

	_ = w.Flush()
}

func (c *console) runTemplates(ctx context.Context, args []string) {
	if len(args) > 0 && args[0] == "update" {
		c.updateTemplate(ctx, args[1:])

		return
	}

	defs, err := c.templates.Defaults(ctx)
	if err != nil {
		c.printCallError(err)

		return
	}

	for _, tpl := range defs {
		status := "Inativo"
		if tpl.Active {
			status = "Ativo"
		}

		c.printf("[%d] %s (%s)\n    %s\n", tpl.ID, templates.FormatType(tpl.Type), status, tpl.Content)
	}
}

// updateTemplate validates the {{variable}} placeholders before anything
// goes over the wire; unknown placeholders abort the save.
func (c *console) updateTemplate(ctx context.Context, args []string) {
	if len(args) < 2 {
		c.printf("Uso: templates update <id> <conteúdo>\n")

		return
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		c.printf("Uso: templates update <id> <conteúdo>\n")

		return
	}

	content := strings.Join(args[1:], " ")

	validation := templates.ValidateVariables(content)
	if !validation.Valid {
		c.printf("Variáveis inválidas: %s\n", strings.Join(validation.InvalidVariables, ", "))

		return
	}

	defs, err := c.templates.Defaults(ctx)
	if err != nil {
		c.printCallError(err)

		return
	}

	active := true

	for _, tpl := range defs {
		if tpl.ID == id {
			active = tpl.Active
			break
		}
	}

	if _, err := c.templates.UpdateDefault(ctx, id, templates.UpdateRequest{Content: content, Active: active}); err != nil {
		c.printCallError(err)

		return
	}

	c.printf("Template atualizado com sucesso\n")
}

func (c *console) runParams(ctx context.Context, args []string) {
	if len(args) == 0 || (args[0] != string(params.TypeAdmin) && args[0] != string(params.TypeSystem)) {
		c.printf("Uso: params admin|system [json]\n")

		return
	}

	paramType := params.Type(args[0])

	if paramType == params.TypeSystem {
		decision := c.gate.Evaluate(guard.Requirement{Level: permissions.LevelSuperAdmin})
		if !decision.Allowed() {
			c.printDenial(decision)

			return
		}
	}

	if len(args) == 1 {
		data, err := c.params.Get(ctx, paramType)
		if err != nil {
			c.printCallError(err)

			return
		}

		c.printf("%s\n", params.FormatJSON(data))

		return
	}

	data, err := params.ParseJSON(strings.Join(args[1:], " "))
	if err != nil {
		c.printf("JSON inválido: %s\n", err)

		return
	}

	saved, err := c.params.Save(ctx, paramType, data)
	if err != nil {
		c.printCallError(err)

		return
	}

	c.printf("Parâmetros salvos com sucesso\n%s\n", params.FormatJSON(saved))
}

func (c *console) showSummary(ctx context.Context) {
	summary, err := c.whatsapp.Summary(ctx)
	if err != nil {
		c.printCallError(err)

		return
	}

	c.printSummary(summary)
}

func (c *console) printSummary(summary whatsapp.Summary) {
	c.printf("Sessões: %d | Fila: %d | Mensagens: %d\n",
		len(summary.Sessions), len(summary.Queue), len(summary.Messages))

	for _, s := range summary.Sessions {
		c.printf("  %s %s %s\n", s.Name, whatsapp.FormatPhoneBR(s.Number), whatsapp.TranslateStatus(s.Status))
	}
}

func (c *console) runWatch(ctx context.Context, args []string) {
	action := "start"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "start":
		c.poller.Start(ctx)
		c.printf("Monitoramento iniciado.\n")
	case "stop":
		c.poller.Stop()
		c.printf("Monitoramento parado.\n")
	default:
		c.printf("Uso: watch start|stop\n")
	}
}

func (c *console) printCallError(err error) {
	var callErr *api.CallError
	if errors.As(err, &callErr) {
		c.printf("%s\n", callErr.Message)

		for field, messages := range callErr.Fields {
			for _, msg := range messages {
				c.printf("  %s: %s\n", field, msg)
			}
		}

		return
	}

	c.printf("%s\n", err)
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func panicOnErr(msg string, err error) {
	if err != nil {
		panic(fmt.Sprintf("%s: %s", msg, err))
	}
}
