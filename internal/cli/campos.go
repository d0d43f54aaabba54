package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comunavision/go-admin/pkg/renderers/tui"
	"github.com/comunavision/go-admin/pkg/schema"
)

var (
	flagImportSchema string
	flagImportSkip   []string
	flagImportDryRun bool
	flagCampoYes     bool
)

var camposCmd = &cobra.Command{
	Use:   "campos",
	Short: "Gestiona el esquema de campos dinámicos",
}

var camposListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista los campos configurados",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.requireSession(); err != nil {
			return err
		}
		fields, err := app.Campos.List(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable("ID", "Clave", "Etiqueta", "Tipo", "Oblig.", "Activo", "Opciones")
		for _, field := range fields {
			t.addRow(
				strconv.FormatInt(field.ID, 10),
				field.Key,
				field.Label,
				string(field.Type),
				boolMark(field.Required),
				boolMark(field.Active),
				strings.Join(field.Options, ", "),
			)
		}
		fmt.Fprint(cmd.OutOrStdout(), t.render())
		return nil
	},
}

var camposCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Define un campo nuevo",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.requireSession(); err != nil {
			return err
		}
		ctx := cmd.Context()

		field, err := collectCampo(ctx, schema.FieldDescriptor{Active: true})
		if err != nil {
			return err
		}
		saved, err := app.Campos.Create(ctx, field)
		if err != nil {
			return err
		}
		app.Logger.Info("campo creado", zap.Int64("id", saved.ID), zap.String("clave", saved.Key))
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Campo %q creado (#%d)", saved.Key, saved.ID)))
		return nil
	},
}

var camposEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Modifica un campo existente",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.requireSession(); err != nil {
			return err
		}
		ctx := cmd.Context()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		current, err := findCampo(ctx, id)
		if err != nil {
			return err
		}

		field, err := collectCampo(ctx, current)
		if err != nil {
			return err
		}
		field.ID = current.ID
		field.Key = current.Key // immutable once stored

		saved, err := app.Campos.Update(ctx, field)
		if err != nil {
			return err
		}
		app.Logger.Info("campo actualizado", zap.Int64("id", saved.ID))
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Campo %q actualizado", saved.Key)))
		return nil
	},
}

var camposDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Elimina un campo del esquema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.requireSession(); err != nil {
			return err
		}
		ctx := cmd.Context()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		field, err := findCampo(ctx, id)
		if err != nil {
			return err
		}

		if !flagCampoYes {
			ok, err := promptDriver().Confirm(ctx, tui.ConfirmConfig{
				Message: fmt.Sprintf("¿Eliminar el campo %q? Los datos ya guardados bajo esa clave se conservan.", field.Key),
			})
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelado.")
				return nil
			}
		}

		if err := app.Campos.Delete(ctx, id); err != nil {
			return err
		}
		app.Logger.Info("campo eliminado", zap.Int64("id", id), zap.String("clave", field.Key))
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Campo %q eliminado", field.Key)))
		return nil
	},
}

var camposImportCmd = &cobra.Command{
	Use:   "import <openapi.yaml>",
	Short: "Deriva campos desde un documento OpenAPI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.requireSession(); err != nil {
			return err
		}
		ctx := cmd.Context()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("cli: leer documento: %w", err)
		}

		fields, err := schema.ImportOpenAPI(ctx, data, schema.ImportOptions{
			Schema:   flagImportSchema,
			SkipKeys: append([]string{"id", "nombre", "documento"}, flagImportSkip...),
		})
		if err != nil {
			return err
		}

		existing, err := app.Campos.List(ctx)
		if err != nil {
			return err
		}
		taken := make(map[string]bool, len(existing))
		for _, field := range existing {
			taken[field.Key] = true
		}

		created := 0
		for _, field := range fields {
			if taken[field.Key] {
				fmt.Fprintf(cmd.OutOrStdout(), "omitido %q: ya existe\n", field.Key)
				continue
			}
			if flagImportDryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "crearía %q (%s)\n", field.Key, field.Type)
				continue
			}
			saved, err := app.Campos.Create(ctx, field)
			if err != nil {
				return fmt.Errorf("cli: crear campo %q: %w", field.Key, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "creado %q (#%d)\n", saved.Key, saved.ID)
			created++
		}
		if !flagImportDryRun {
			app.Logger.Info("importación completada", zap.Int("creados", created))
		}
		return nil
	},
}

// collectCampo prompts the full descriptor. Current values become prompt
// defaults so edit flows start from the stored state.
func collectCampo(ctx context.Context, current schema.FieldDescriptor) (schema.FieldDescriptor, error) {
	driver := promptDriver()

	field := schema.FieldDescriptor{Active: true}

	if current.Saved() {
		field.Key = current.Key
	} else {
		key, err := driver.Input(ctx, tui.InputConfig{
			Message: "Clave",
			Help:    "identificador del dato, p. ej. zona o fecha_ingreso",
		})
		if err != nil {
			return schema.FieldDescriptor{}, err
		}
		field.Key = strings.TrimSpace(key)
	}

	label, err := driver.Input(ctx, tui.InputConfig{Message: "Etiqueta", Default: current.Label})
	if err != nil {
		return schema.FieldDescriptor{}, err
	}
	field.Label = label

	types := schema.Types()
	names := make([]string, len(types))
	defaultIdx := 0
	for i, t := range types {
		names[i] = string(t)
		if t == current.Type {
			defaultIdx = i
		}
	}
	idx, err := driver.Select(ctx, tui.SelectConfig{
		Message:      "Tipo",
		Options:      names,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return schema.FieldDescriptor{}, err
	}
	if idx >= 0 && idx < len(types) {
		field.Type = types[idx]
	}

	if field.Type == schema.TypeSelect {
		block, err := driver.TextArea(ctx, tui.TextAreaConfig{
			Message: "Opciones (una por línea)",
			Default: strings.Join(current.Options, "\n"),
		})
		if err != nil {
			return schema.FieldDescriptor{}, err
		}
		field.Options = schema.ParseOptions(block)
	}

	placeholder, err := driver.Input(ctx, tui.InputConfig{Message: "Placeholder", Default: current.Placeholder})
	if err != nil {
		return schema.FieldDescriptor{}, err
	}
	field.Placeholder = placeholder

	required, err := driver.Confirm(ctx, tui.ConfirmConfig{Message: "¿Obligatorio?", Default: current.Required})
	if err != nil {
		return schema.FieldDescriptor{}, err
	}
	field.Required = required

	if current.Saved() {
		active, err := driver.Confirm(ctx, tui.ConfirmConfig{Message: "¿Activo?", Default: current.Active})
		if err != nil {
			return schema.FieldDescriptor{}, err
		}
		field.Active = active
	}
	field.Order = current.Order
	return field, nil
}

func findCampo(ctx context.Context, id int64) (schema.FieldDescriptor, error) {
	fields, err := app.Campos.List(ctx)
	if err != nil {
		return schema.FieldDescriptor{}, err
	}
	for _, field := range fields {
		if field.ID == id {
			return field, nil
		}
	}
	return schema.FieldDescriptor{}, fmt.Errorf("cli: no existe el campo #%d", id)
}

func boolMark(v bool) string {
	if v {
		return "sí"
	}
	return "no"
}

func init() {
	camposImportCmd.Flags().StringVar(&flagImportSchema, "schema", "", "componente del documento a importar")
	camposImportCmd.Flags().StringSliceVar(&flagImportSkip, "skip", nil, "claves a omitir")
	camposImportCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "muestra lo que se crearía sin llamar a la API")
	camposDeleteCmd.Flags().BoolVarP(&flagCampoYes, "yes", "y", false, "no pedir confirmación")

	camposCmd.AddCommand(camposListCmd, camposCreateCmd, camposEditCmd, camposDeleteCmd, camposImportCmd)
}
